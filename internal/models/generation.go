package models

import "time"

// GenerationResult is the view returned to the caller of a generate
// call. Remote failures are reported through Status, not as errors;
// absent fields are empty strings.
type GenerationResult struct {
	Content      string
	Status       string
	FinishReason string
	Refusal      string
}

// Succeeded reports whether the generation produced content.
func (r GenerationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Generation is a response record joined to its prompt, as listed by
// the history browser.
type Generation struct {
	Timestamp      time.Time
	Prompt         string
	Model          string
	Status         string
	Error          string
	FinishReason   string
	PromptTokens   int64
	ResponseTokens int64
	ID             int64
	PromptID       int64
}

// TotalTokens returns the combined token count for the generation.
func (g Generation) TotalTokens() int64 {
	return g.PromptTokens + g.ResponseTokens
}

// LedgerStats holds aggregate counters over the whole ledger.
type LedgerStats struct {
	TotalGenerations    int
	Successes           int
	Failures            int
	TotalPromptTokens   int64
	TotalResponseTokens int64
	UniqueModels        int
}
