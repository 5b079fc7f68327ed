// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath  string
	APIKey        string
	BaseURL       string
	Model         string
	SystemMessage string
	MaxRetries    int
	RetryDelay    time.Duration
}

// Default values
const (
	defaultBaseURL       = "https://api.openai.com/v1"
	defaultModel         = "gpt-4o"
	defaultSystemMessage = "You are a helpful assistant."
	defaultMaxRetries    = 3
	defaultRetryDelay    = 2 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:  getEnvString("PROMPTLEDGER_DB", getDefaultDatabasePath()),
		APIKey:        getEnvString("OPENAI_API_KEY", ""),
		BaseURL:       getEnvString("OPENAI_BASE_URL", defaultBaseURL),
		Model:         getEnvString("PROMPTLEDGER_MODEL", defaultModel),
		SystemMessage: getEnvString("PROMPTLEDGER_SYSTEM_MESSAGE", defaultSystemMessage),
		MaxRetries:    getEnvInt("PROMPTLEDGER_MAX_RETRIES", defaultMaxRetries),
		RetryDelay:    getEnvDuration("PROMPTLEDGER_RETRY_DELAY", defaultRetryDelay),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "promptledger", ".env"),
			filepath.Join(home, ".promptledger", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite ledger.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "promptledger.db"
	}
	return filepath.Join(home, ".config", "promptledger", "promptledger.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
