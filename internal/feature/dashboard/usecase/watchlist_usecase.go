package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/metrics"
)

// SymbolLister はウォッチリスト対象の銘柄コードを返します。
type SymbolLister interface {
	ActiveCodes(ctx context.Context) ([]string, error)
}

// MarketClock reports whether the exchange is in session.
type MarketClock interface {
	IsOpen(t time.Time) bool
}

// WatchlistItem is the quote of one symbol, or the reason it is missing.
type WatchlistItem struct {
	Symbol string
	Quote  *entity.Quote
	Err    error
}

// WatchlistResult is the quote list shown beside the dashboard.
type WatchlistResult struct {
	Items      []WatchlistItem
	MarketOpen bool
	Conversion *Conversion
}

// WatchlistUsecase builds intraday quotes for every watchlist symbol.
type WatchlistUsecase struct {
	dashboard *DashboardUsecase
	symbols   SymbolLister
	clock     MarketClock
	now       func() time.Time
}

// NewWatchlistUsecase はWatchlistUsecaseを生成します。clock は nil でも構いません。
func NewWatchlistUsecase(dashboard *DashboardUsecase, symbols SymbolLister, clock MarketClock) *WatchlistUsecase {
	return &WatchlistUsecase{dashboard: dashboard, symbols: symbols, clock: clock, now: time.Now}
}

// Watchlist は全銘柄の当日の値動きを返します。
// 1銘柄の失敗は他の銘柄の処理を止めません。
func (u *WatchlistUsecase) Watchlist(ctx context.Context, currency string) (WatchlistResult, error) {
	codes, err := u.symbols.ActiveCodes(ctx)
	if err != nil {
		return WatchlistResult{}, fmt.Errorf("list watchlist symbols: %w", err)
	}

	var res WatchlistResult
	if u.clock != nil {
		res.MarketOpen = u.clock.IsOpen(u.now())
	}

	var rate *entity.ExchangeRate
	if currency != "" {
		res.Conversion = u.dashboard.resolveRate(ctx, currency)
		rate = res.Conversion.Rate
	}

	res.Items = make([]WatchlistItem, 0, len(codes))
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return WatchlistResult{}, err
		}
		item := WatchlistItem{Symbol: code}
		table, err := u.dashboard.candles.GetCandles(ctx, code, candleusecase.WatchlistPeriod)
		if err == nil {
			var q entity.Quote
			q, err = metrics.Quote(table, rate)
			if err == nil {
				item.Quote = &q
			}
		}
		if err != nil {
			slog.Warn("watchlist quote unavailable", "symbol", code, "error", err)
			item.Err = err
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}
