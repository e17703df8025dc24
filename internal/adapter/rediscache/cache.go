// Package rediscache stores raw wiki API responses in Redis so repeated
// hydration runs do not refetch unchanged pages.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/grimoire-backend/internal/config"
)

// Cache is a TTL-bounded byte cache keyed by request URL.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// New connects to the configured Redis instance.
func New(cfg config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled() {
		return nil, errors.New("rediscache: redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewWithClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, ttl time.Duration, prefix string) *Cache {
	return &Cache{client: client, ttl: ttl, prefix: prefix}
}

// Get returns the cached value for key. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rediscache get: %w", err)
	}
	return val, true, nil
}

// Set stores value under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (c *Cache) Close() error {
	return c.client.Close()
}

// key hashes the request URL so keys stay short and free of spaces.
func (c *Cache) key(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return c.prefix + hex.EncodeToString(sum[:])
}
