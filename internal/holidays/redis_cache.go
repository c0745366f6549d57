package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache shares holiday lists between server replicas.
// Expiry is delegated to Redis key TTLs.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache for the given address
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping checks connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the client
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, country string, year int) ([]Holiday, error) {
	payload, err := c.client.Get(ctx, cacheKey(country, year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var hs []Holiday
	if err := json.Unmarshal(payload, &hs); err != nil {
		return nil, fmt.Errorf("decode cached holidays: %w", err)
	}
	return hs, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, country string, year int, hs []Holiday) error {
	payload, err := json.Marshal(hs)
	if err != nil {
		return fmt.Errorf("encode holidays: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(country, year), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
