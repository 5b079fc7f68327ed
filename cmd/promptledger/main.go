// Package main is the entry point for the promptledger CLI.
// It records every generation in a local SQLite ledger and can browse
// the ledger in a terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/promptledger/promptledger/internal/config"
	"github.com/promptledger/promptledger/internal/db"
	"github.com/promptledger/promptledger/internal/ledger"
	"github.com/promptledger/promptledger/internal/llm"
	"github.com/promptledger/promptledger/internal/logger"
	"github.com/promptledger/promptledger/internal/models"
	"github.com/promptledger/promptledger/internal/ui/history"
	"github.com/promptledger/promptledger/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "ask":
		err = runAsk(os.Args[2:])
	case "history":
		err = runHistory(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runAsk performs one generation and prints the outcome.
func runAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	model := fs.String("model", "", "model identifier (default from config)")
	system := fs.String("system", "", "system message (default from config)")
	noStore := fs.Bool("no-store", false, "skip recording this generation in the ledger")
	notify := fs.Bool("notify", false, "raise a desktop notification when done")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: promptledger ask [flags] <prompt>")
	}
	prompt := strings.Join(fs.Args(), " ")

	logger.SetDebug(*verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required (set via env or .env)")
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
	}()

	client := llm.NewOpenAIClient(cfg.BaseURL, cfg.APIKey)
	l := ledger.New(database, client, ledger.Options{
		Model:         cfg.Model,
		SystemMessage: cfg.SystemMessage,
		MaxRetries:    cfg.MaxRetries,
		RetryDelay:    cfg.RetryDelay,
	})

	req := ledger.NewRequest(prompt)
	req.Model = *model
	req.SystemMessage = *system
	req.Store = !*noStore

	result, err := l.Generate(context.Background(), req)
	if err != nil {
		return err
	}

	if *notify {
		notifyResult(result)
	}

	if !result.Succeeded() {
		return fmt.Errorf("generation failed; see the ledger for the recorded error")
	}

	if result.Refusal != "" {
		fmt.Fprintf(os.Stderr, "Refusal: %s\n", result.Refusal)
	}
	fmt.Println(result.Content)
	return nil
}

func notifyResult(result models.GenerationResult) {
	title := "promptledger"
	body := "Generation complete."
	if !result.Succeeded() {
		body = "Generation failed."
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Debug("notification failed", "error", err)
	}
}

// runHistory opens the ledger browser TUI.
func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 100, "number of generations to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
	}()

	p := tea.NewProgram(history.New(database, *limit), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`promptledger - durable ledger for chat-completion calls

Usage:
  promptledger ask [flags] <prompt>   Generate a response, recorded in the ledger
  promptledger history [flags]        Browse recorded generations in a TUI

Ask flags:
  -model string    Model identifier (default from config)
  -system string   System message (default from config)
  -no-store        Skip recording this generation
  -notify          Desktop notification when done
  -verbose         Debug logging

History flags:
  -limit int       Number of generations to list (default 100)

Global flags:
  -h, --help       Show this help message
  -v, --version    Show version information

Environment Variables:
  PROMPTLEDGER_DB              SQLite ledger path
  OPENAI_API_KEY               API credential (required for ask)
  OPENAI_BASE_URL              API base URL
  PROMPTLEDGER_MODEL           Default model
  PROMPTLEDGER_SYSTEM_MESSAGE  Default system message
  PROMPTLEDGER_MAX_RETRIES     Remote call attempts per generation (default 3)
  PROMPTLEDGER_RETRY_DELAY     Delay between attempts (default 2s)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/promptledger/.env
  - ~/.promptledger/.env`)
}
