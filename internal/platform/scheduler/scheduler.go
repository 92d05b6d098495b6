// Package scheduler runs the periodic cache jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
	fxusecase "stock_dashboard/internal/feature/fxrate/usecase"
)

const (
	JobRefreshFX     = "refresh_fx"
	JobWarmWatchlist = "warm_watchlist"
)

// RateGetter resolves an exchange rate through the FX cache.
type RateGetter interface {
	GetRate(ctx context.Context, currency string) (entity.ExchangeRate, error)
}

// Invalidator drops cached series for a symbol.
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// Warmer fetches series so the market cache is populated.
type Warmer interface {
	WarmAll(ctx context.Context, symbols []string) (candleusecase.WarmupResult, error)
}

// SymbolLister returns the watchlist codes.
type SymbolLister interface {
	ActiveCodes(ctx context.Context) ([]string, error)
}

// MarketClock reports whether the exchange is in session.
type MarketClock interface {
	IsOpen(t time.Time) bool
}

// JobObserver records job outcomes. It may be nil.
type JobObserver interface {
	ObserveJob(job string, err error)
	SetMarketOpen(open bool)
}

// Deps are the collaborators the jobs drive. FXCache and Observer may be nil.
type Deps struct {
	Rates    RateGetter
	FXCache  Invalidator
	Warmer   Warmer
	Symbols  SymbolLister
	Clock    MarketClock
	Observer JobObserver
}

// Config holds the cron expressions (with seconds) and the FX currency to keep fresh.
// An empty expression disables the job.
type Config struct {
	FXCron     string
	WarmupCron string
	Currency   string
	// JobTimeout bounds a single run. Zero means no bound.
	JobTimeout time.Duration
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	deps Deps
	cfg  Config
	now  func() time.Time
}

// NewScheduler creates a new Scheduler. ctx is the parent of every job run.
func NewScheduler(ctx context.Context, deps Deps, cfg Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		ctx:  ctx,
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
	}
}

// RegisterAll registers the FX refresh and watchlist warm-up jobs.
func (s *Scheduler) RegisterAll() error {
	if s.cfg.FXCron != "" && s.cfg.Currency != "" {
		if _, err := s.cron.AddFunc(s.cfg.FXCron, func() { _ = s.RefreshFX() }); err != nil {
			return fmt.Errorf("register fx refresh: %w", err)
		}
	}
	if s.cfg.WarmupCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.WarmupCron, func() { _ = s.WarmWatchlist() }); err != nil {
			return fmt.Errorf("register watchlist warmup: %w", err)
		}
	}
	return nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", s.Entries())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RefreshFX drops the cached rate and fetches it again.
func (s *Scheduler) RefreshFX() (err error) {
	ctx, cancel := s.jobContext()
	defer cancel()
	defer func() { s.observe(JobRefreshFX, err) }()

	if s.deps.FXCache != nil {
		if err := s.deps.FXCache.Invalidate(ctx, fxusecase.Ticker(strings.ToUpper(s.cfg.Currency))); err != nil {
			// 失効に失敗しても古いレートを使い続けられるので続行
			slog.WarnContext(ctx, "fx cache invalidate failed", "currency", s.cfg.Currency, "error", err)
		}
	}
	rate, err := s.deps.Rates.GetRate(ctx, s.cfg.Currency)
	if err != nil {
		slog.ErrorContext(ctx, "fx refresh failed", "currency", s.cfg.Currency, "error", err)
		return err
	}
	slog.InfoContext(ctx, "fx rate refreshed", "currency", rate.Currency, "rate", rate.Rate)
	return nil
}

// WarmWatchlist fetches every watchlist series while the market is open.
// Outside the session it does nothing.
func (s *Scheduler) WarmWatchlist() (err error) {
	open := s.deps.Clock == nil || s.deps.Clock.IsOpen(s.now())
	if s.deps.Observer != nil {
		s.deps.Observer.SetMarketOpen(open)
	}
	if !open {
		slog.Debug("market closed, skipping warmup")
		return nil
	}

	ctx, cancel := s.jobContext()
	defer cancel()
	defer func() { s.observe(JobWarmWatchlist, err) }()

	codes, err := s.deps.Symbols.ActiveCodes(ctx)
	if err != nil {
		return fmt.Errorf("list watchlist symbols: %w", err)
	}
	res, err := s.deps.Warmer.WarmAll(ctx, codes)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("warmup: %d of %d fetches failed", res.Failed, res.Failed+res.Succeeded)
	}
	return nil
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	if s.cfg.JobTimeout > 0 {
		return context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *Scheduler) observe(job string, err error) {
	if s.deps.Observer != nil {
		s.deps.Observer.ObserveJob(job, err)
	}
}
