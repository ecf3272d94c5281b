package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// SQLite backed cache of resolved places keyed by normalized text.
// Keys are expected to be normalized by the caller.
type SqlitePlaceCache struct {
	DB *sql.DB
}

func NewSqlitePlaceCache(db *sql.DB) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db}
}

// Fetch cached resolutions for the given keys.
func (s *SqlitePlaceCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.ResolvedPlace, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.ResolvedPlace{}, nil
	}

	ph := make([]string, len(uniq))
	args := make([]any, len(uniq))
	for i, k := range uniq {
		ph[i] = "?"
		args[i] = k
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        key,
        name,
        lat,
        lng,
        status,
        resolved_at
    FROM place_cache
    WHERE key IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanSqlitePlaces(rows, len(uniq))
}

// All returns every cached resolution.
func (s *SqlitePlaceCache) All(ctx context.Context) (_ map[string]domain.ResolvedPlace, err error) {
	defer obs.Time(ctx, "place.cache.All")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT key, name, lat, lng, status, resolved_at
    FROM place_cache;
	`)
	if err != nil {
		return nil, fmt.Errorf("list place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanSqlitePlaces(rows, 0)
}

func scanSqlitePlaces(rows *sql.Rows, sizeHint int) (map[string]domain.ResolvedPlace, error) {
	out := make(map[string]domain.ResolvedPlace, sizeHint)
	for rows.Next() {
		var (
			p          domain.ResolvedPlace
			status     string
			resolvedAt string
		)
		if err := rows.Scan(&p.Key, &p.Name, &p.Coordinates.Lat, &p.Coordinates.Lng, &status, &resolvedAt); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		p.Status = domain.PlaceStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, resolvedAt); err == nil {
			p.ResolvedAt = t
		}
		out[p.Key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}
	return out, nil
}

// Store key -> resolution mappings in the cache.
func (s *SqlitePlaceCache) PutMany(ctx context.Context, places map[string]domain.ResolvedPlace) (err error) {
	defer obs.Time(ctx, "place.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(places) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO place_cache (
        key,
        name,
        lat,
        lng,
        status,
        resolved_at
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, p := range places {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert place cache: empty key")
		}

		resolvedAt := p.ResolvedAt
		if resolvedAt.IsZero() {
			resolvedAt = time.Now()
		}

		if _, err := stmt.ExecContext(ctx, key, p.Name, p.Coordinates.Lat, p.Coordinates.Lng, string(p.Status), resolvedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert place cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}

// Delete evicts one key.
func (s *SqlitePlaceCache) Delete(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM place_cache WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete place cache key=%q: %w", key, err)
	}
	return nil
}
