package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings. An empty URL disables caching.
type Config struct {
	URL      string
	Password string
}

// Cache stores upstream responses for a short TTL so repeated screenings
// of the same address do not hammer the compliance API. A nil *Cache is
// valid and caches nothing.
type Cache struct {
	rdb *redis.Client
}

// NewCache creates a new Redis-backed cache. Returns (nil, nil) when no
// URL is configured.
func NewCache(cfg Config) (*Cache, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func verdictKey(source, address string) string {
	return fmt.Sprintf("screener:%s:%s", source, address)
}

// Get loads a cached value into dest. Returns false on miss, on any
// Redis error, or when the cache is disabled.
func (c *Cache) Get(ctx context.Context, source, address string, dest any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, verdictKey(source, address)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a value with the given TTL. Errors are ignored: a broken
// cache must never fail an evaluation.
func (c *Cache) Set(ctx context.Context, source, address string, value any, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, verdictKey(source, address), raw, ttl)
}
