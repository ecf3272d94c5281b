package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// SQLite-backed implementation of the NoteRepository port.
type SqliteNoteRepository struct{ DB *sql.DB }

func NewSqliteNoteRepository(db *sql.DB) *SqliteNoteRepository {
	return &SqliteNoteRepository{DB: db}
}

// Return all notes keyed by day.
func (s *SqliteNoteRepository) ListNotes(ctx context.Context) (map[string]domain.Note, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite note repository: DB is nil")
	}

	query := `
	SELECT
		day,
		free_text,
		tickets,
		treffpunkt,
		mitbringen,
		kosten,
		links
	FROM notes;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notes: query notes table: %w", err)
	}
	defer rows.Close()

	notes := make(map[string]domain.Note)
	for rows.Next() {
		var (
			day string
			n   domain.Note
		)
		if err := rows.Scan(&day, &n.FreeText, &n.Tickets, &n.MeetingPoint, &n.Bring, &n.Costs, &n.Links); err != nil {
			return nil, fmt.Errorf("list notes: scan row: %w", err)
		}
		notes[day] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: row iteration: %w", err)
	}

	return notes, nil
}

// Store or replace one day's note.
func (s *SqliteNoteRepository) SaveNote(ctx context.Context, day string, note domain.Note) error {
	if s.DB == nil {
		return errors.New("sqlite note repository: DB is nil")
	}
	if strings.TrimSpace(day) == "" {
		return errors.New("save note: day must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, upsertNoteQuery, noteArgs(day, note)...); err != nil {
		return fmt.Errorf("save note day=%s: %w", day, err)
	}
	return nil
}

// Swap the whole note set in one transaction.
func (s *SqliteNoteRepository) ReplaceAll(ctx context.Context, notes map[string]domain.Note) error {
	if s.DB == nil {
		return errors.New("sqlite note repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace notes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes;`); err != nil {
		return fmt.Errorf("replace notes: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertNoteQuery)
	if err != nil {
		return fmt.Errorf("replace notes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for day, n := range notes {
		if strings.TrimSpace(day) == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, noteArgs(day, n)...); err != nil {
			return fmt.Errorf("replace notes: insert day=%s: %w", day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace notes: commit tx: %w", err)
	}
	return nil
}

// Remove one day's note. Missing notes are not an error.
func (s *SqliteNoteRepository) DeleteNote(ctx context.Context, day string) error {
	if s.DB == nil {
		return errors.New("sqlite note repository: DB is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM notes WHERE day = ?;`, day); err != nil {
		return fmt.Errorf("delete note day=%s: %w", day, err)
	}
	return nil
}

const upsertNoteQuery = `
	INSERT OR REPLACE INTO notes (
		day,
		free_text,
		tickets,
		treffpunkt,
		mitbringen,
		kosten,
		links,
		updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`

func noteArgs(day string, n domain.Note) []any {
	return []any{day, n.FreeText, n.Tickets, n.MeetingPoint, n.Bring, n.Costs, n.Links}
}
