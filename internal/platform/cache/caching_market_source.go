// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
)

// CacheObserver records cache hits and misses. It may be nil.
type CacheObserver interface {
	ObserveCache(namespace string, hit bool)
}

// CachingMarketSource decorates a MarketDataSource with Redis caching.
// Entries are keyed by (symbol, period, interval) and expire after the
// TTL chosen by the policy at write time.
type CachingMarketSource struct {
	inner     usecase.MarketDataSource
	rdb       *redis.Client
	ttl       TTLPolicy
	namespace string
	observer  CacheObserver
}

var _ usecase.MarketDataSource = (*CachingMarketSource)(nil)

// NewCachingMarketSource decorates a MarketDataSource with Redis caching.
// If ttl is nil, entries live for 5 minutes. If namespace is empty, it uses "series".
func NewCachingMarketSource(rdb *redis.Client, ttl TTLPolicy, inner usecase.MarketDataSource, namespace string) *CachingMarketSource {
	if ttl == nil {
		ttl = FixedTTL(5 * time.Minute)
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingMarketSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// WithObserver sets the hit/miss observer.
func (c *CachingMarketSource) WithObserver(o CacheObserver) *CachingMarketSource {
	c.observer = o
	return c
}

// FetchSeries returns the cached series when present, otherwise asks the inner source.
// Provider errors are never cached.
func (c *CachingMarketSource) FetchSeries(ctx context.Context, symbol string, window entity.Window) (entity.RawSeries, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchSeries(ctx, symbol, window)
	}

	key := c.cacheKey(symbol, window)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.RawSeries
		if err := json.Unmarshal(b, &out); err == nil {
			c.observe(true)
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}
	c.observe(false)

	// 2) Fallback to provider
	out, err := c.inner.FetchSeries(ctx, symbol, window)
	if err != nil {
		return entity.RawSeries{}, err
	}

	// 3) Store in cache (best effort). Empty responses are not cached.
	if !out.Empty() {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl(time.Now())).Err()
		}
	}

	return out, nil
}

// Invalidate removes every cached window of symbol.
func (c *CachingMarketSource) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:%s:*", c.namespace, safe(symbol)))
}

func (c *CachingMarketSource) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(c.namespace, hit)
	}
}

// cacheKey generates a cache key for a specific fetch.
func (c *CachingMarketSource) cacheKey(symbol string, window entity.Window) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		safe(window.Period),
		safe(window.Interval),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketSource) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
