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

// SQLPlaceCache is a Postgres-backed cache of resolved places, shared
// between service instances.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Fetch cached resolutions for the given keys.
func (s *SQLPlaceCache) GetMany(
	ctx context.Context,
	keys []string,
) (_ map[string]domain.ResolvedPlace, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.ResolvedPlace{}, nil
	}

	q := `
	SELECT key, name, lat, lng, status, resolved_at
    FROM place_cache
    WHERE key = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanSQLPlaces(rows, len(uniq))
}

// All returns every cached resolution.
func (s *SQLPlaceCache) All(ctx context.Context) (_ map[string]domain.ResolvedPlace, err error) {
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

	return scanSQLPlaces(rows, 0)
}

func scanSQLPlaces(rows *sql.Rows, sizeHint int) (map[string]domain.ResolvedPlace, error) {
	out := make(map[string]domain.ResolvedPlace, sizeHint)
	for rows.Next() {
		var (
			p      domain.ResolvedPlace
			status string
		)
		if err := rows.Scan(&p.Key, &p.Name, &p.Coordinates.Lat, &p.Coordinates.Lng, &status, &p.ResolvedAt); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		p.Status = domain.PlaceStatus(status)
		out[p.Key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}
	return out, nil
}

// Store key -> resolution mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, places map[string]domain.ResolvedPlace) (err error) {
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
	INSERT INTO place_cache (key, name, lat, lng, status, resolved_at)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (key) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		status = EXCLUDED.status,
		resolved_at = EXCLUDED.resolved_at;
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

		if _, err := stmt.ExecContext(ctx, key, p.Name, p.Coordinates.Lat, p.Coordinates.Lng, string(p.Status), resolvedAt.UTC()); err != nil {
			return fmt.Errorf("insert place cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}

// Delete evicts one key.
func (s *SQLPlaceCache) Delete(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM place_cache WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete place cache key=%q: %w", key, err)
	}
	return nil
}
