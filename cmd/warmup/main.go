// Command warmup fetches every watchlist series once so the Redis cache is
// populated before traffic arrives. Run it from a job scheduler after the open.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"stock_dashboard/internal/app/config"
	"stock_dashboard/internal/app/di"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	"stock_dashboard/internal/platform/calendar"
	infradb "stock_dashboard/internal/platform/db"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger.Init("stock-dashboard-warmup", logger.ParseLevel(cfg.Log.Level))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Schedule.JobTimeout)
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	db, err := infradb.OpenDB(60 * time.Second)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	rdb := di.OpenRedis(ctx)
	if rdb == nil {
		slog.Error("warmup needs Redis; nothing to do")
		os.Exit(1)
	}
	defer func() { _ = rdb.Close() }()

	market, err := di.NewMarket(cfg.Provider, nil)
	if err != nil {
		slog.Error("failed to create market provider", "error", err)
		os.Exit(1)
	}
	sources := di.NewSources(rdb, calendar.New(cfg.Calendar.MIC), cfg, market, nil)

	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db), cfg.DefaultSymbols())
	symbols, err := symbolUC.ActiveCodes(ctx)
	if err != nil {
		slog.Error("failed to load symbols", "error", err)
		os.Exit(1)
	}

	uc := candlesusecase.NewWarmupUsecase(
		candlesusecase.NewCandlesUsecase(sources.Series, loc, nil),
		ratelimiter.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Interval),
	)
	res, err := uc.WarmAll(ctx, symbols)
	if err != nil {
		slog.Error("warmup aborted", "error", err, "succeeded", res.Succeeded, "failed", res.Failed)
		os.Exit(1)
	}
	slog.Info("warmup ok", "succeeded", res.Succeeded, "failed", res.Failed)
}
