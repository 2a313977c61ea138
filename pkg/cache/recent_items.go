package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RecentItemsTTL bounds how long an orphaned snapshot lingers in Redis.
	RecentItemsTTL = 5 * time.Minute

	recentItemsKeyPrefix = "items:recent"
	recentItemsVersion   = recentItemsKeyPrefix + ":version"
)

// CachedItem is the JSON form of one entry in a recent-items snapshot.
type CachedItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentItemsCache stores newest-first list snapshots keyed by a version
// counter. Invalidate bumps the counter, so a snapshot computed before a write
// lands under a version nobody reads any more.
//
// Key format: "items:recent:{version}:{limit}"
type RecentItemsCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewRecentItemsCache creates a RecentItemsCache backed by the given RedisClient.
func NewRecentItemsCache(r *RedisClient) *RecentItemsCache {
	return &RecentItemsCache{client: r, ttl: RecentItemsTTL}
}

// Version returns the current snapshot version; 0 when none was recorded yet.
func (c *RecentItemsCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Client().Get(ctx, recentItemsVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return v, nil
}

// Get returns the snapshot stored for version and limit. Returns redis.Nil when absent.
func (c *RecentItemsCache) Get(ctx context.Context, version int64, limit int) ([]CachedItem, error) {
	raw, err := c.client.Client().Get(ctx, c.key(version, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, redis.Nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var items []CachedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return items, nil
}

// Set stores a snapshot for version and limit with the cache TTL.
func (c *RecentItemsCache) Set(ctx context.Context, version int64, limit int, items []CachedItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(version, limit), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate retires every snapshot by bumping the version counter.
func (c *RecentItemsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Incr(ctx, recentItemsVersion).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *RecentItemsCache) key(version int64, limit int) string {
	return fmt.Sprintf("%s:%d:%d", recentItemsKeyPrefix, version, limit)
}
