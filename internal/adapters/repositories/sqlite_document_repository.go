package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the DocumentRepository port. Edits are
// stored as one JSON row next to the seeded original.
type SqliteDocumentRepository struct{ DB *sql.DB }

func NewSqliteDocumentRepository(db *sql.DB) *SqliteDocumentRepository {
	return &SqliteDocumentRepository{DB: db}
}

func (s *SqliteDocumentRepository) LoadDocument(ctx context.Context) ([]string, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sqlite document repository: DB is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT paragraphs FROM edited_document WHERE id = 1;`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load document: %w", err)
	}

	var paragraphs []string
	if err := json.Unmarshal([]byte(raw), &paragraphs); err != nil {
		return nil, false, fmt.Errorf("load document: decode: %w", err)
	}
	if paragraphs == nil {
		paragraphs = []string{}
	}
	return paragraphs, true, nil
}

func (s *SqliteDocumentRepository) SaveDocument(ctx context.Context, paragraphs []string) error {
	if s.DB == nil {
		return errors.New("sqlite document repository: DB is nil")
	}
	if paragraphs == nil {
		paragraphs = []string{}
	}

	raw, err := json.Marshal(paragraphs)
	if err != nil {
		return fmt.Errorf("save document: encode: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO edited_document (
		id,
		paragraphs,
		updated_at
	)
	VALUES (1, ?, CURRENT_TIMESTAMP);
	`, string(raw))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SqliteDocumentRepository) ClearDocument(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sqlite document repository: DB is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM edited_document;`); err != nil {
		return fmt.Errorf("clear document: %w", err)
	}
	return nil
}

func (s *SqliteDocumentRepository) LoadOriginal(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite document repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT text
	FROM original_document
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("load original document: query: %w", err)
	}
	defer rows.Close()

	paragraphs := make([]string, 0, 256)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("load original document: scan row: %w", err)
		}
		paragraphs = append(paragraphs, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load original document: row iteration: %w", err)
	}
	return paragraphs, nil
}
