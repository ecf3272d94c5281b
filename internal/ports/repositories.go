package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Port: per-day notes storage. Keys are day numbers rendered as strings.
type NoteRepository interface {
	ListNotes(ctx context.Context) (map[string]domain.Note, error)
	SaveNote(ctx context.Context, day string, note domain.Note) error
	// ReplaceAll swaps the whole note set in one transaction.
	ReplaceAll(ctx context.Context, notes map[string]domain.Note) error
	DeleteNote(ctx context.Context, day string) error
}

// Port: the editable itinerary document.
type DocumentRepository interface {
	// LoadDocument returns the edited paragraphs, or ok=false when no edit was stored.
	LoadDocument(ctx context.Context) (paragraphs []string, ok bool, err error)
	SaveDocument(ctx context.Context, paragraphs []string) error
	ClearDocument(ctx context.Context) error
	// LoadOriginal returns the seeded original paragraphs.
	LoadOriginal(ctx context.Context) ([]string, error)
}

// Port: small key/value preferences (sync mode, user name).
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}
