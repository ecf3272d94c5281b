package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// SQLite backed cache of place photo lookups keyed by query and coarse
// location.
type SqlitePhotoCache struct {
	DB *sql.DB
}

func NewSqlitePhotoCache(db *sql.DB) *SqlitePhotoCache {
	return &SqlitePhotoCache{DB: db}
}

// Get returns the cached entry for key, or nil on a miss.
func (s *SqlitePhotoCache) Get(ctx context.Context, key string) (*domain.CachedPhotos, error) {
	if s.DB == nil {
		return nil, errors.New("photo cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("get photo cache: key must not be empty")
	}

	var (
		entry    = domain.CachedPhotos{Key: key}
		urlsJSON string
		notFound int
		status   string
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
        urls,
        attribution_html,
        not_found,
        status
    FROM photo_cache
    WHERE key = ?;
	`, key).Scan(&urlsJSON, &entry.AttributionHTML, &notFound, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get photo cache key=%q: %w", key, err)
	}

	if urlsJSON != "" {
		if err := json.Unmarshal([]byte(urlsJSON), &entry.URLs); err != nil {
			return nil, fmt.Errorf("get photo cache key=%q: decode urls: %w", key, err)
		}
	}
	entry.NotFound = notFound != 0
	entry.Status = domain.PlaceStatus(status)

	return &entry, nil
}

// Put stores or replaces one entry.
func (s *SqlitePhotoCache) Put(ctx context.Context, entry domain.CachedPhotos) error {
	if s.DB == nil {
		return errors.New("photo cache: db is nil")
	}

	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("insert photo cache: empty key")
	}

	urls := entry.URLs
	if urls == nil {
		urls = []string{}
	}
	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("insert photo cache key=%q: encode urls: %w", entry.Key, err)
	}

	notFound := 0
	if entry.NotFound {
		notFound = 1
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO photo_cache (
        key,
        urls,
        attribution_html,
        not_found,
        status,
        updated_at
    )
    VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, entry.Key, string(urlsJSON), entry.AttributionHTML, notFound, string(entry.Status))
	if err != nil {
		return fmt.Errorf("insert photo cache key=%q: %w", entry.Key, err)
	}

	return nil
}
