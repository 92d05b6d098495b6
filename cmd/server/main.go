package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"stock_dashboard/internal/app/config"
	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	dashboardusecase "stock_dashboard/internal/feature/dashboard/usecase"
	fxusecase "stock_dashboard/internal/feature/fxrate/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	"stock_dashboard/internal/platform/calendar"
	infradb "stock_dashboard/internal/platform/db"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/platform/metrics"
	"stock_dashboard/internal/platform/scheduler"
	"stock_dashboard/internal/shared/ratelimiter"
)

const serviceName = "stock-dashboard"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Init(serviceName, logger.ParseLevel(cfg.Log.Level))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	specs, err := cfg.IndicatorSpecs()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(60 * time.Second)
	if err != nil {
		return err
	}

	// Redis（未設定・接続不可ならキャッシュなしで起動）
	rdb := di.OpenRedis(ctx)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.NewMetrics()
	cal := calendar.New(cfg.Calendar.MIC)

	// Market data（Redisキャッシュでラップ）
	market, err := di.NewMarket(cfg.Provider, m)
	if err != nil {
		return err
	}
	sources := di.NewSources(rdb, cal, cfg, market, m)

	// Repository / Usecase
	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db), cfg.DefaultSymbols())
	if err := symbolUC.Seed(ctx); err != nil {
		slog.Warn("failed to seed watchlist symbols", "error", err)
	}
	candlesUC := candlesusecase.NewCandlesUsecase(sources.Series, loc, m)
	fxUC := fxusecase.NewFXRateUsecase(sources.FX)
	dashboardUC := dashboardusecase.NewDashboardUsecase(candlesUC, fxUC, dashboardusecase.Config{
		Indicators:       specs,
		FallbackCurrency: cfg.FX.Currency,
		FallbackRate:     cfg.FX.FallbackRate,
	})
	watchlistUC := dashboardusecase.NewWatchlistUsecase(dashboardUC, symbolUC, cal)
	warmupUC := candlesusecase.NewWarmupUsecase(candlesUC, ratelimiter.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Interval))

	// Scheduler
	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Rates:    fxUC,
		FXCache:  sources.FX,
		Warmer:   warmupUC,
		Symbols:  symbolUC,
		Clock:    cal,
		Observer: m,
	}, scheduler.Config{
		FXCron:     cfg.Schedule.FXCron,
		WarmupCron: cfg.Schedule.WarmupCron,
		Currency:   cfg.FX.Currency,
		JobTimeout: cfg.Schedule.JobTimeout,
	})
	if err := sched.RegisterAll(); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Health:    handler.NewHealthHandler(di.NewHealthChecks(db, rdb)),
		Candles:   candleshandler.NewCandlesHandler(candlesUC),
		Dashboard: dashboardhandler.NewDashboardHandler(dashboardUC, watchlistUC),
		Symbols:   symbollisthandler.NewSymbolHandler(symbolUC),
	}, m)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr, "provider", cfg.Provider, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
