// Package usecase はローソク足データ取得と正規化のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/domain/normalizer"
)

// MarketDataSource は外部プロバイダから生の時系列データを取得するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketDataSource interface {
	FetchSeries(ctx context.Context, symbol string, window entity.Window) (entity.RawSeries, error)
}

// NormalizeObserver receives normalization stats for each fetched series.
type NormalizeObserver interface {
	ObserveNormalize(symbol string, stats normalizer.Stats)
}

// candlesUsecase はローソク足データ取得のユースケースです。
type candlesUsecase struct {
	source   MarketDataSource
	loc      *time.Location
	observer NormalizeObserver
	now      func() time.Time
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
// observer は nil でも構いません。
func NewCandlesUsecase(source MarketDataSource, loc *time.Location, observer NormalizeObserver) *candlesUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &candlesUsecase{source: source, loc: loc, observer: observer, now: time.Now}
}

// GetCandles は指定された銘柄と期間のローソク足を取得し、正規化したテーブルを返します。
//
// プロバイダ側のエラーはすべて ErrNoDataFound として返します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol, period string) (entity.CanonicalTable, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return entity.CanonicalTable{}, fmt.Errorf("%w: symbol is required", domain.ErrMalformedInput)
	}
	window, err := ResolveWindow(period, cu.now())
	if err != nil {
		return entity.CanonicalTable{}, err
	}

	raw, err := cu.source.FetchSeries(ctx, symbol, window)
	if err != nil {
		slog.Warn("market data fetch failed", "symbol", symbol, "period", window.Period, "interval", window.Interval, "error", err)
		return entity.CanonicalTable{}, fmt.Errorf("%w: %s", domain.ErrNoDataFound, symbol)
	}
	if raw.Symbol == "" {
		raw.Symbol = symbol
	}
	if raw.Interval == "" {
		raw.Interval = window.Interval
	}

	table, stats, err := normalizer.NormalizeWithStats(raw, cu.loc)
	if cu.observer != nil {
		cu.observer.ObserveNormalize(symbol, stats)
	}
	if err != nil {
		return entity.CanonicalTable{}, err
	}
	if stats.Dropped > 0 || stats.Duplicates > 0 {
		slog.Info("normalized series", "symbol", symbol, "rows", table.Len(), "dropped", stats.Dropped, "duplicates", stats.Duplicates)
	}
	return table, nil
}
