package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema for local state and caches.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createNotesQuery := `
	CREATE TABLE IF NOT EXISTS notes (
		day TEXT PRIMARY KEY,
		free_text TEXT NOT NULL DEFAULT '',
		tickets TEXT NOT NULL DEFAULT '',
		treffpunkt TEXT NOT NULL DEFAULT '',
		mitbringen TEXT NOT NULL DEFAULT '',
		kosten TEXT NOT NULL DEFAULT '',
		links TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createOriginalDocumentQuery := `
	CREATE TABLE IF NOT EXISTS original_document (
		position INTEGER PRIMARY KEY,
		text TEXT NOT NULL
	);
	`

	createEditedDocumentQuery := `
	CREATE TABLE IF NOT EXISTS edited_document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		paragraphs TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	createPlaceCacheQuery := `
	CREATE TABLE IF NOT EXISTS place_cache (
        key TEXT PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        lat REAL NOT NULL DEFAULT 0,
        lng REAL NOT NULL DEFAULT 0,
        status TEXT NOT NULL,
        resolved_at TEXT NOT NULL
    );
	`

	createPhotoCacheQuery := `
	CREATE TABLE IF NOT EXISTS photo_cache (
        key TEXT PRIMARY KEY,
        urls TEXT NOT NULL DEFAULT '[]',
        attribution_html TEXT NOT NULL DEFAULT '',
        not_found INTEGER NOT NULL DEFAULT 0,
        status TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_place_cache_status
    ON place_cache(status);
	`

	return execAll(db, "init schema", []string{
		createNotesQuery,
		createOriginalDocumentQuery,
		createEditedDocumentQuery,
		createSettingsQuery,
		createPlaceCacheQuery,
		createPhotoCacheQuery,
		createIndexQuery,
	})
}

// Initialize the shared Postgres place cache schema.
func InitPlaceCacheSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init place cache schema: DB is nil")
	}

	createPlaceCacheQuery := `
	CREATE TABLE IF NOT EXISTS place_cache (
        key TEXT PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        lat DOUBLE PRECISION NOT NULL DEFAULT 0,
        lng DOUBLE PRECISION NOT NULL DEFAULT 0,
        status TEXT NOT NULL,
        resolved_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_place_cache_status
    ON place_cache(status);
	`

	return execAll(db, "init place cache schema", []string{createPlaceCacheQuery, createIndexQuery})
}

func execAll(db *sql.DB, op string, statements []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

// DocumentSeed is the extractor's output file.
type DocumentSeed struct {
	Paragraphs []string `json:"paragraphs"`
}

// Populate the original document from an extracted JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed document: read %q: %w", jsonPath, err)
	}

	var data DocumentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed document: parse json: %w", err)
	}

	if err := SeedParagraphs(context.Background(), db, data.Paragraphs); err != nil {
		return 0, err
	}
	return len(data.Paragraphs), nil
}

// SeedParagraphs replaces the original document. Blank paragraphs are rejected.
func SeedParagraphs(ctx context.Context, db *sql.DB, paragraphs []string) error {
	if db == nil {
		return errors.New("seed document: DB is nil")
	}

	for i, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("seed document: paragraph at index %d is empty", i)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed document: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM original_document;`); err != nil {
		return fmt.Errorf("seed document: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO original_document (
		position,
		text
	)
	VALUES (?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed document: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range paragraphs {
		if _, err := stmt.ExecContext(ctx, i, strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("seed document: insert position=%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed document: commit tx: %w", err)
	}

	return nil
}

// IsSeeded reports whether the original document holds any paragraphs.
func IsSeeded(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM original_document;`).Scan(&n); err != nil {
		return false, fmt.Errorf("check seed: %w", err)
	}
	return n > 0, nil
}
