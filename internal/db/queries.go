package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptledger/promptledger/internal/logger"
	"github.com/promptledger/promptledger/internal/models"
)

// InsertPrompt records a prompt before any remote call is attempted.
// The assigned row id is written back into the record.
func (db *DB) InsertPrompt(prompt *models.PromptRecord) error {
	query := `
		INSERT INTO prompts (prompt, system_message, model) VALUES (?, ?, ?)
	`

	result, err := db.ExecContext(context.Background(), query,
		prompt.Prompt,
		prompt.SystemMessage,
		prompt.Model,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prompt: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		prompt.ID = id
	}

	return nil
}

// InsertResponse records the terminal outcome of a generation.
// The assigned row id is written back into the record.
func (db *DB) InsertResponse(resp *models.ResponseRecord) error {
	query := `
		INSERT INTO responses (
			prompt_id, response, error, status, refusal, finish_reason,
			timestamp, prompt_tokens, response_tokens
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := resp.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		resp.PromptID,
		nullString(resp.Response),
		nullString(resp.Error),
		resp.Status,
		nullString(resp.Refusal),
		nullString(resp.FinishReason),
		timestamp.Format("2006-01-02 15:04:05"),
		resp.PromptTokens,
		resp.ResponseTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		resp.ID = id
	}

	return nil
}

// GetRecentGenerations returns the most recent generations, newest
// first, each response joined to its prompt.
func (db *DB) GetRecentGenerations(limit int) ([]models.Generation, error) {
	query := `
		SELECT r.id, r.prompt_id, p.prompt, p.model, r.status,
			   COALESCE(r.error, ''), COALESCE(r.finish_reason, ''),
			   r.timestamp,
			   COALESCE(r.prompt_tokens, 0), COALESCE(r.response_tokens, 0)
		FROM responses r
		JOIN prompts p ON p.id = r.prompt_id
		ORDER BY r.id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent generations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var generations []models.Generation
	for rows.Next() {
		var g models.Generation
		var ts string

		err := rows.Scan(
			&g.ID,
			&g.PromptID,
			&g.Prompt,
			&g.Model,
			&g.Status,
			&g.Error,
			&g.FinishReason,
			&ts,
			&g.PromptTokens,
			&g.ResponseTokens,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}

		g.Timestamp, _ = time.Parse("2006-01-02 15:04:05", ts)
		generations = append(generations, g)
	}

	return generations, rows.Err()
}

// GetResponsesForPrompt returns every outcome recorded for a prompt.
// Multiple rows exist only when the caller generated the same logical
// prompt more than once.
func (db *DB) GetResponsesForPrompt(promptID int64) ([]models.ResponseRecord, error) {
	query := `
		SELECT id, prompt_id, COALESCE(response, ''), COALESCE(error, ''),
			   status, COALESCE(refusal, ''), COALESCE(finish_reason, ''),
			   timestamp, prompt_tokens, response_tokens
		FROM responses
		WHERE prompt_id = ?
		ORDER BY id ASC
	`

	rows, err := db.QueryContext(context.Background(), query, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var responses []models.ResponseRecord
	for rows.Next() {
		var r models.ResponseRecord
		var ts string

		err := rows.Scan(
			&r.ID,
			&r.PromptID,
			&r.Response,
			&r.Error,
			&r.Status,
			&r.Refusal,
			&r.FinishReason,
			&ts,
			&r.PromptTokens,
			&r.ResponseTokens,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		r.Timestamp, _ = time.Parse("2006-01-02 15:04:05", ts)
		responses = append(responses, r)
	}

	return responses, rows.Err()
}

// GetLedgerStats returns aggregate counters over the whole ledger.
func (db *DB) GetLedgerStats() (*models.LedgerStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN r.status = 'success' THEN 1 ELSE 0 END) as successes,
			SUM(CASE WHEN r.status = 'failure' THEN 1 ELSE 0 END) as failures,
			COALESCE(SUM(r.prompt_tokens), 0) as prompt_tokens,
			COALESCE(SUM(r.response_tokens), 0) as response_tokens,
			COUNT(DISTINCT p.model) as unique_models
		FROM responses r
		JOIN prompts p ON p.id = r.prompt_id
	`

	var stats models.LedgerStats
	var successes, failures sql.NullInt64
	err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.TotalGenerations,
		&successes,
		&failures,
		&stats.TotalPromptTokens,
		&stats.TotalResponseTokens,
		&stats.UniqueModels,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger stats: %w", err)
	}

	stats.Successes = int(successes.Int64)
	stats.Failures = int(failures.Int64)

	return &stats, nil
}

// CountPrompts returns the number of prompt records in the ledger.
func (db *DB) CountPrompts() (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM prompts").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count prompts: %w", err)
	}
	return n, nil
}

// CountResponses returns the number of response records in the ledger.
func (db *DB) CountResponses() (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM responses").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return n, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
