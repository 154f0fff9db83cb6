package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyValueCache adapts the redis client to the byte-oriented cache the
// service layer consumes.
type KeyValueCache struct {
	client *redis.Client
}

// NewKeyValueCache wraps a connected redis client.
func NewKeyValueCache(client *redis.Client) *KeyValueCache {
	return &KeyValueCache{client: client}
}

// Get returns the cached value; a miss surfaces as redis.Nil.
func (c *KeyValueCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

// Set stores value under key for ttl.
func (c *KeyValueCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Del removes key.
func (c *KeyValueCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
