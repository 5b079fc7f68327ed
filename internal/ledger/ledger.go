// Package ledger orchestrates generation calls: every prompt is
// recorded before the remote call, the call is retried on transient
// failure up to a bound, and the terminal outcome is recorded
// alongside the prompt.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptledger/promptledger/internal/db"
	"github.com/promptledger/promptledger/internal/llm"
	"github.com/promptledger/promptledger/internal/logger"
	"github.com/promptledger/promptledger/internal/models"
)

// Options configures a Ledger. Zero fields fall back to defaults.
type Options struct {
	Model         string
	SystemMessage string
	MaxRetries    int
	RetryDelay    time.Duration
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Model:         "gpt-4o",
		SystemMessage: "You are a helpful assistant.",
		MaxRetries:    3,
		RetryDelay:    2 * time.Second,
	}
}

// Ledger owns one store handle and one remote client for its lifetime.
// It is fully synchronous and not designed for concurrent callers.
type Ledger struct {
	database *db.DB
	client   llm.Client
	opts     Options
	sleep    func(time.Duration)
}

// New creates a Ledger over an open store and remote client.
func New(database *db.DB, client llm.Client, opts Options) *Ledger {
	defaults := DefaultOptions()
	if opts.Model == "" {
		opts.Model = defaults.Model
	}
	if opts.SystemMessage == "" {
		opts.SystemMessage = defaults.SystemMessage
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaults.RetryDelay
	}

	return &Ledger{
		database: database,
		client:   client,
		opts:     opts,
		sleep:    time.Sleep,
	}
}

// Request describes one generation. Model and SystemMessage fall back
// to the Ledger's configured defaults when empty.
type Request struct {
	Prompt        string
	Model         string
	SystemMessage string
	Store         bool
}

// NewRequest builds a Request with storage enabled.
func NewRequest(prompt string) Request {
	return Request{Prompt: prompt, Store: true}
}

// Generate produces a generation result for one prompt with
// at-least-once durability of the attempt record.
//
// When storage is requested the prompt is recorded before any remote
// call; a prompt-insert failure is the only fault returned before the
// remote call. The remote call is attempted up to MaxRetries times
// total with a fixed delay between attempts; first success wins.
// Remote failure is absorbed into the stored outcome record and the
// returned view's Status, never returned as an error.
func (l *Ledger) Generate(ctx context.Context, req Request) (models.GenerationResult, error) {
	model := req.Model
	if model == "" {
		model = l.opts.Model
	}
	systemMessage := req.SystemMessage
	if systemMessage == "" {
		systemMessage = l.opts.SystemMessage
	}

	// Record intent before any remote call
	var promptID int64
	if req.Store {
		record := &models.PromptRecord{
			Prompt:        req.Prompt,
			SystemMessage: systemMessage,
			Model:         model,
		}
		if err := l.database.InsertPrompt(record); err != nil {
			return models.GenerationResult{}, fmt.Errorf("failed to record prompt: %w", err)
		}
		promptID = record.ID
	}

	resp, attemptErr := l.attempt(ctx, llm.ChatRequest(model, systemMessage, req.Prompt))

	result := models.GenerationResult{Status: models.StatusFailure}
	outcome := &models.ResponseRecord{
		PromptID:  promptID,
		Status:    models.StatusFailure,
		Timestamp: time.Now(),
	}

	if attemptErr == nil {
		result = models.GenerationResult{
			Content:      resp.Content,
			Status:       models.StatusSuccess,
			FinishReason: resp.FinishReason,
			Refusal:      resp.Refusal,
		}
		outcome.Status = models.StatusSuccess
		outcome.Response = string(resp.Raw)
		outcome.Refusal = resp.Refusal
		outcome.FinishReason = resp.FinishReason
		if resp.HasUsage {
			outcome.PromptTokens = sql.NullInt64{Int64: resp.PromptTokens, Valid: true}
			outcome.ResponseTokens = sql.NullInt64{Int64: resp.ResponseTokens, Valid: true}
		}
	} else {
		outcome.Error = attemptErr.Error()
	}

	// Record the terminal outcome, exactly once, referencing the prompt
	if req.Store && promptID != 0 {
		if err := l.database.InsertResponse(outcome); err != nil {
			return result, fmt.Errorf("failed to record outcome: %w", err)
		}
	}

	return result, nil
}

// attempt runs the bounded retry loop. The budget is MaxRetries total
// attempts, not MaxRetries additional ones; the final attempt's error
// is the one surfaced.
func (l *Ledger) attempt(ctx context.Context, req llm.Request) (*llm.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= l.opts.MaxRetries; attempt++ {
		resp, err := l.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		logger.Warn("generation attempt failed",
			"attempt", attempt,
			"max_retries", l.opts.MaxRetries,
			"error", err)

		if attempt < l.opts.MaxRetries {
			l.sleep(l.opts.RetryDelay)
		}
	}

	return nil, lastErr
}
