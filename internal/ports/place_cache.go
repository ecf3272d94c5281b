package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Port: persistent cache of resolved places keyed by normalized text.
type PlaceCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]domain.ResolvedPlace, error)
	PutMany(ctx context.Context, places map[string]domain.ResolvedPlace) error
	// All returns a snapshot of every cached entry.
	All(ctx context.Context) (map[string]domain.ResolvedPlace, error)
	Delete(ctx context.Context, key string) error
}

// Port: persistent cache of place photo lookups.
type PhotoCache interface {
	Get(ctx context.Context, key string) (*domain.CachedPhotos, error)
	Put(ctx context.Context, entry domain.CachedPhotos) error
}
