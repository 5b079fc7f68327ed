package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/promptledger/promptledger/internal/models"
)

func TestInsertPrompt(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	prompt := &models.PromptRecord{
		Prompt:        "What is the capital of France?",
		SystemMessage: "You are a helpful assistant.",
		Model:         "gpt-4o",
	}

	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}

	if prompt.ID == 0 {
		t.Error("InsertPrompt() should set ID")
	}
}

func TestInsertPrompt_MonotonicIDs(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var last int64
	for i := 0; i < 3; i++ {
		prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
		if err := db.InsertPrompt(prompt); err != nil {
			t.Fatalf("InsertPrompt() failed: %v", err)
		}
		if prompt.ID <= last {
			t.Errorf("IDs should increase, got %d after %d", prompt.ID, last)
		}
		last = prompt.ID
	}
}

func TestInsertResponse_Success(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}

	resp := &models.ResponseRecord{
		PromptID:       prompt.ID,
		Response:       `{"choices":[{"message":{"content":"Paris"}}]}`,
		Status:         models.StatusSuccess,
		FinishReason:   "stop",
		PromptTokens:   sql.NullInt64{Int64: 12, Valid: true},
		ResponseTokens: sql.NullInt64{Int64: 3, Valid: true},
	}

	if err := db.InsertResponse(resp); err != nil {
		t.Fatalf("InsertResponse() failed: %v", err)
	}

	if resp.ID == 0 {
		t.Error("InsertResponse() should set ID")
	}
}

func TestInsertResponse_Failure(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}

	resp := &models.ResponseRecord{
		PromptID: prompt.ID,
		Status:   models.StatusFailure,
		Error:    "rate limit exceeded",
	}

	if err := db.InsertResponse(resp); err != nil {
		t.Fatalf("InsertResponse() with error failed: %v", err)
	}

	stored, err := db.GetResponsesForPrompt(prompt.ID)
	if err != nil {
		t.Fatalf("GetResponsesForPrompt() failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected 1 response, got %d", len(stored))
	}
	if stored[0].Error != "rate limit exceeded" {
		t.Errorf("Error = %q, want %q", stored[0].Error, "rate limit exceeded")
	}
	if stored[0].Response != "" {
		t.Errorf("Failure row should have no payload, got %q", stored[0].Response)
	}
	if stored[0].PromptTokens.Valid {
		t.Error("Failure row should leave prompt_tokens NULL")
	}
}

func TestInsertResponse_WithTimestamp(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	resp := &models.ResponseRecord{
		PromptID:  prompt.ID,
		Status:    models.StatusSuccess,
		Timestamp: ts,
	}
	if err := db.InsertResponse(resp); err != nil {
		t.Fatalf("InsertResponse() failed: %v", err)
	}

	stored, err := db.GetResponsesForPrompt(prompt.ID)
	if err != nil {
		t.Fatalf("GetResponsesForPrompt() failed: %v", err)
	}
	if !stored[0].Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", stored[0].Timestamp, ts)
	}
}

func TestGetRecentGenerations(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for i, status := range []string{models.StatusSuccess, models.StatusFailure, models.StatusSuccess} {
		prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
		if err := db.InsertPrompt(prompt); err != nil {
			t.Fatalf("InsertPrompt() failed: %v", err)
		}
		resp := &models.ResponseRecord{
			PromptID:  prompt.ID,
			Status:    status,
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertResponse(resp); err != nil {
			t.Fatalf("InsertResponse() failed: %v", err)
		}
	}

	generations, err := db.GetRecentGenerations(2)
	if err != nil {
		t.Fatalf("GetRecentGenerations() failed: %v", err)
	}

	if len(generations) != 2 {
		t.Fatalf("Expected 2 generations, got %d", len(generations))
	}

	// Newest first
	if generations[0].ID < generations[1].ID {
		t.Error("Generations should be ordered newest first")
	}
}

func TestGetLedgerStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	stats, err := db.GetLedgerStats()
	if err != nil {
		t.Fatalf("GetLedgerStats() on empty ledger failed: %v", err)
	}
	if stats.TotalGenerations != 0 {
		t.Errorf("Empty ledger should report 0 generations, got %d", stats.TotalGenerations)
	}

	prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}
	resps := []*models.ResponseRecord{
		{
			PromptID:       prompt.ID,
			Status:         models.StatusSuccess,
			PromptTokens:   sql.NullInt64{Int64: 10, Valid: true},
			ResponseTokens: sql.NullInt64{Int64: 20, Valid: true},
		},
		{
			PromptID: prompt.ID,
			Status:   models.StatusFailure,
			Error:    "timeout",
		},
	}
	for _, r := range resps {
		if err := db.InsertResponse(r); err != nil {
			t.Fatalf("InsertResponse() failed: %v", err)
		}
	}

	stats, err = db.GetLedgerStats()
	if err != nil {
		t.Fatalf("GetLedgerStats() failed: %v", err)
	}

	if stats.TotalGenerations != 2 {
		t.Errorf("TotalGenerations = %d, want 2", stats.TotalGenerations)
	}
	if stats.Successes != 1 || stats.Failures != 1 {
		t.Errorf("Successes/Failures = %d/%d, want 1/1", stats.Successes, stats.Failures)
	}
	if stats.TotalPromptTokens != 10 || stats.TotalResponseTokens != 20 {
		t.Errorf("Token totals = %d/%d, want 10/20",
			stats.TotalPromptTokens, stats.TotalResponseTokens)
	}
	if stats.UniqueModels != 1 {
		t.Errorf("UniqueModels = %d, want 1", stats.UniqueModels)
	}
}

func TestCounts(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	prompt := &models.PromptRecord{Prompt: "p", Model: "gpt-4o"}
	if err := db.InsertPrompt(prompt); err != nil {
		t.Fatalf("InsertPrompt() failed: %v", err)
	}

	prompts, err := db.CountPrompts()
	if err != nil {
		t.Fatalf("CountPrompts() failed: %v", err)
	}
	if prompts != 1 {
		t.Errorf("CountPrompts() = %d, want 1", prompts)
	}

	responses, err := db.CountResponses()
	if err != nil {
		t.Fatalf("CountResponses() failed: %v", err)
	}
	if responses != 0 {
		t.Errorf("CountResponses() = %d, want 0", responses)
	}
}
