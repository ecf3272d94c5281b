package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/domain"
)

const photoKeyPrefix = "photo:"

// RedisPhotoCache keeps photo lookups in Redis so several instances share
// them. A zero TTL keeps entries until evicted.
type RedisPhotoCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPhotoCache(client *redis.Client, ttl time.Duration) *RedisPhotoCache {
	return &RedisPhotoCache{Client: client, TTL: ttl}
}

// Get returns the cached entry for key, or nil on a miss.
func (r *RedisPhotoCache) Get(ctx context.Context, key string) (*domain.CachedPhotos, error) {
	if r.Client == nil {
		return nil, errors.New("photo cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("get photo cache: key must not be empty")
	}

	raw, err := r.Client.Get(ctx, photoKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get photo cache key=%q: %w", key, err)
	}

	var entry domain.CachedPhotos
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("get photo cache key=%q: decode: %w", key, err)
	}
	entry.Key = key
	return &entry, nil
}

// Put stores or replaces one entry.
func (r *RedisPhotoCache) Put(ctx context.Context, entry domain.CachedPhotos) error {
	if r.Client == nil {
		return errors.New("photo cache: redis client is nil")
	}

	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("insert photo cache: empty key")
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("insert photo cache key=%q: encode: %w", entry.Key, err)
	}

	if err := r.Client.Set(ctx, photoKeyPrefix+entry.Key, raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert photo cache key=%q: %w", entry.Key, err)
	}
	return nil
}
