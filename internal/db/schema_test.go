package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSchema_FreshStore(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.ValidateSchema(); err != nil {
		t.Errorf("ValidateSchema() on fresh store failed: %v", err)
	}
}

func TestValidateSchema_MissingColumn(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "stale.db")

	// Seed a pre-existing store whose prompts table lacks the model
	// column. CREATE TABLE IF NOT EXISTS will leave it untouched.
	seedStore(t, dbPath, `
		CREATE TABLE prompts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			prompt TEXT,
			system_message TEXT
		);
	`)

	_, err := New(dbPath)
	if err == nil {
		t.Fatal("New() should fail against a store missing a column")
	}
	if !strings.Contains(err.Error(), "missing column model TEXT") {
		t.Errorf("Error should name the missing column, got: %v", err)
	}
}

func TestValidateSchema_WrongColumnType(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "stale.db")

	// timestamp declared TEXT instead of DATETIME
	seedStore(t, dbPath, `
		CREATE TABLE responses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			prompt_id INTEGER,
			response TEXT,
			error TEXT,
			status TEXT,
			refusal TEXT,
			finish_reason TEXT,
			timestamp TEXT,
			prompt_tokens INTEGER,
			response_tokens INTEGER
		);
	`)

	_, err := New(dbPath)
	if err == nil {
		t.Fatal("New() should fail when a column has the wrong type")
	}
	if !strings.Contains(err.Error(), "missing column timestamp DATETIME") {
		t.Errorf("Error should name the mismatched column, got: %v", err)
	}
}

func TestValidateSchema_TypeCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "lowercase.db")

	// Lower-case declared types must validate
	seedStore(t, dbPath, `
		CREATE TABLE prompts (
			id integer PRIMARY KEY AUTOINCREMENT,
			prompt text,
			system_message text,
			model text
		);
	`)

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() should accept lower-case column types: %v", err)
	}
	defer db.Close()
}

// seedStore creates a store file with the given schema, bypassing New.
func seedStore(t *testing.T, path, schema string) {
	t.Helper()
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open raw database: %v", err)
	}
	defer raw.Close()

	if _, err := raw.ExecContext(context.Background(), schema); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
}
