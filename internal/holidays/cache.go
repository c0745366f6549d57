package holidays

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultCacheTTL = 24 * time.Hour

// Cache stores holiday lists per (country, year)
type Cache interface {
	// Get returns ErrNotFound on a miss or an expired entry
	Get(ctx context.Context, country string, year int) ([]Holiday, error)
	Set(ctx context.Context, country string, year int, hs []Holiday) error
}

// MemoryCache is an in-process TTL cache
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*cachedHolidays
	now     func() time.Time
}

type cachedHolidays struct {
	data      []Holiday
	fetchedAt time.Time
}

// NewMemoryCache creates a MemoryCache; a zero ttl selects 24h
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]*cachedHolidays),
		now:     time.Now,
	}
}

// Get implements Cache
func (c *MemoryCache) Get(_ context.Context, country string, year int) ([]Holiday, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[cacheKey(country, year)]
	if !ok || c.now().Sub(cached.fetchedAt) >= c.ttl {
		return nil, ErrNotFound
	}
	return append([]Holiday(nil), cached.data...), nil
}

// Set implements Cache
func (c *MemoryCache) Set(_ context.Context, country string, year int, hs []Holiday) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(country, year)] = &cachedHolidays{
		data:      append([]Holiday(nil), hs...),
		fetchedAt: c.now(),
	}
	return nil
}

// Clear drops every entry
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cachedHolidays)
}

// CachedSource wraps a Source with a Cache. Only successful lookups are stored,
// so a failing upstream is retried on the next call.
type CachedSource struct {
	source Source
	cache  Cache
	logger *zap.Logger
}

// NewCachedSource creates a new CachedSource
func NewCachedSource(source Source, cache Cache, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{source: source, cache: cache, logger: logger}
}

// Holidays implements Source
func (cs *CachedSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	country = NormalizeCountry(country)

	hs, err := cs.cache.Get(ctx, country, year)
	if err == nil {
		cs.logger.Debug("Using cached holidays",
			zap.String("country", country),
			zap.Int("year", year))
		return hs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		cs.logger.Warn("Holiday cache read failed", zap.Error(err))
	}

	hs, err = cs.source.Holidays(ctx, country, year)
	if err != nil {
		return nil, fmt.Errorf("holiday source: %w", err)
	}

	if err := cs.cache.Set(ctx, country, year, hs); err != nil {
		cs.logger.Warn("Holiday cache write failed",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
	}

	return hs, nil
}
