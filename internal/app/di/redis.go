package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	infraredis "stock_dashboard/internal/platform/redis"
)

// OpenRedis connects to Redis when REDIS_HOST is set.
// It returns nil when Redis is not configured or unreachable; callers run without cache.
func OpenRedis(ctx context.Context) *redis.Client {
	cfg := infraredis.LoadConfig()
	if !cfg.Enabled() {
		slog.Warn("REDIS_HOST is not set. Running without cache.")
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "addr", cfg.Addr, "error", err)
		return nil
	}
	return rdb
}
