// Package models defines data structures and domain types.
package models

import (
	"database/sql"
	"time"
)

// Generation status values stored in the responses table and reported
// back to callers.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// PromptRecord represents one prompt submitted for generation.
// Rows are immutable once inserted.
type PromptRecord struct {
	Prompt        string
	SystemMessage string
	Model         string
	ID            int64
}

// ResponseRecord represents the terminal outcome of one generation
// attempt for a prompt. Written exactly once, after the retry loop
// concludes.
type ResponseRecord struct {
	Timestamp      time.Time
	Response       string
	Error          string
	Status         string
	Refusal        string
	FinishReason   string
	PromptTokens   sql.NullInt64
	ResponseTokens sql.NullInt64
	ID             int64
	PromptID       int64
}
