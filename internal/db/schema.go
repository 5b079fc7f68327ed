package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// expectedColumn is a (name, declared type) pair a table must carry.
type expectedColumn struct {
	name string
	typ  string
}

var expectedPromptsColumns = []expectedColumn{
	{"id", "INTEGER"},
	{"prompt", "TEXT"},
	{"system_message", "TEXT"},
	{"model", "TEXT"},
}

var expectedResponsesColumns = []expectedColumn{
	{"id", "INTEGER"},
	{"prompt_id", "INTEGER"},
	{"response", "TEXT"},
	{"error", "TEXT"},
	{"status", "TEXT"},
	{"refusal", "TEXT"},
	{"finish_reason", "TEXT"},
	{"timestamp", "DATETIME"},
	{"prompt_tokens", "INTEGER"},
	{"response_tokens", "INTEGER"},
}

// ValidateSchema introspects both tables and confirms every expected
// column exists with its declared type (type comparison is
// case-insensitive). It fails on the first unmet expectation, naming
// the missing column, so a stale or foreign store file is rejected at
// startup instead of failing obscurely mid-operation.
func (db *DB) ValidateSchema() error {
	if err := db.validateTable("prompts", expectedPromptsColumns); err != nil {
		return err
	}
	return db.validateTable("responses", expectedResponsesColumns)
}

func (db *DB) validateTable(table string, expected []expectedColumn) error {
	columns, err := db.tableColumns(table)
	if err != nil {
		return fmt.Errorf("failed to introspect %s table: %w", table, err)
	}

	for _, want := range expected {
		found := false
		for _, col := range columns {
			if col.name == want.name && strings.EqualFold(col.typ, want.typ) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf(
				"%s table schema does not match expected schema: missing column %s %s",
				table, want.name, want.typ)
		}
	}

	return nil
}

// tableColumns returns the (name, type) pairs reported by PRAGMA table_info.
func (db *DB) tableColumns(table string) ([]expectedColumn, error) {
	rows, err := db.QueryContext(context.Background(), fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []expectedColumn
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, expectedColumn{name: name, typ: typ})
	}

	return columns, rows.Err()
}
