// Package usecase はダッシュボード表示用のデータ（価格表・指標・集計値）を組み立てます。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/indicator"
	"stock_dashboard/internal/feature/dashboard/domain/metrics"
)

// RateSource values reported with a conversion.
const (
	RateSourceLive     = "live"
	RateSourceFallback = "fallback"
)

// CandlesGetter は正規化済みの価格表を返します。
type CandlesGetter interface {
	GetCandles(ctx context.Context, symbol, period string) (candle.CanonicalTable, error)
}

// RateGetter は USD からの為替レートを返します。
type RateGetter interface {
	GetRate(ctx context.Context, currency string) (entity.ExchangeRate, error)
}

// Config holds dashboard defaults.
type Config struct {
	// Indicators are used when a query names none.
	Indicators []entity.IndicatorSpec
	// FallbackCurrency and FallbackRate are applied when the live rate for
	// FallbackCurrency cannot be resolved. A zero rate disables the fallback.
	FallbackCurrency string
	FallbackRate     float64
}

// DashboardQuery is a single dashboard request.
type DashboardQuery struct {
	Symbol     string
	Period     string
	Indicators []entity.IndicatorSpec
	Currency   string // empty means no conversion
}

// Conversion describes the exchange rate used for a response.
// Rate is nil when no rate could be resolved.
type Conversion struct {
	Currency string
	Rate     *entity.ExchangeRate
	Source   string
	Err      error
}

// IndicatorError is a failure of one requested indicator.
type IndicatorError struct {
	Spec entity.IndicatorSpec
	Err  error
}

// DashboardResult is the dashboard for one symbol and period.
// The metrics and each indicator fail independently of the table.
type DashboardResult struct {
	Table           entity.EnrichedTable
	Metrics         *entity.MetricsRecord
	MetricsErr      error
	IndicatorErrors []IndicatorError
	Conversion      *Conversion
}

// DashboardUsecase はダッシュボードのユースケースです。
type DashboardUsecase struct {
	candles CandlesGetter
	rates   RateGetter
	cfg     Config
}

// NewDashboardUsecase creates a DashboardUsecase. rates may be nil, in which
// case only the configured fallback rate is available.
func NewDashboardUsecase(candles CandlesGetter, rates RateGetter, cfg Config) *DashboardUsecase {
	return &DashboardUsecase{candles: candles, rates: rates, cfg: cfg}
}

// Dashboard は価格表を取得し、集計値と指標を計算します。
//
// 価格表の取得に失敗した場合のみエラーを返します。集計値や個々の指標の
// 失敗は DashboardResult に記録されます。
func (u *DashboardUsecase) Dashboard(ctx context.Context, q DashboardQuery) (DashboardResult, error) {
	table, err := u.candles.GetCandles(ctx, q.Symbol, q.Period)
	if err != nil {
		return DashboardResult{}, err
	}

	var res DashboardResult
	var rate *entity.ExchangeRate
	if q.Currency != "" {
		res.Conversion = u.resolveRate(ctx, q.Currency)
		rate = res.Conversion.Rate
	}

	m, err := metrics.Compute(table, rate)
	if err != nil {
		slog.Warn("metrics unavailable", "symbol", table.Symbol, "error", err)
		res.MetricsErr = err
	} else {
		res.Metrics = &m
	}

	specs := q.Indicators
	if len(specs) == 0 {
		specs = u.cfg.Indicators
	}
	cols := make([]entity.IndicatorColumn, 0, len(specs))
	for _, spec := range uniqueSpecs(specs) {
		col, err := indicator.Column(table, spec)
		if err != nil {
			slog.Warn("indicator unavailable", "symbol", table.Symbol, "indicator", spec.Name(), "error", err)
			res.IndicatorErrors = append(res.IndicatorErrors, IndicatorError{Spec: spec, Err: err})
			continue
		}
		cols = append(cols, col)
	}

	res.Table, err = entity.NewEnrichedTable(table, cols)
	if err != nil {
		return DashboardResult{}, err
	}
	return res, nil
}

// resolveRate returns the live rate for currency, or the configured fallback
// when currency is the fallback currency.
func (u *DashboardUsecase) resolveRate(ctx context.Context, currency string) *Conversion {
	code := strings.ToUpper(strings.TrimSpace(currency))
	conv := &Conversion{Currency: code}

	var err error
	if u.rates == nil {
		err = errors.New("exchange rate lookup is not configured")
	} else {
		var rate entity.ExchangeRate
		rate, err = u.rates.GetRate(ctx, code)
		if err == nil {
			conv.Rate = &rate
			conv.Source = RateSourceLive
			return conv
		}
	}

	conv.Err = err
	if u.cfg.FallbackRate > 0 && strings.EqualFold(u.cfg.FallbackCurrency, code) {
		slog.Warn("using fallback exchange rate", "currency", code, "rate", u.cfg.FallbackRate, "error", err)
		conv.Rate = &entity.ExchangeRate{Currency: code, Rate: u.cfg.FallbackRate}
		conv.Source = RateSourceFallback
		return conv
	}
	slog.Warn("exchange rate unavailable", "currency", code, "error", err)
	return conv
}

func uniqueSpecs(specs []entity.IndicatorSpec) []entity.IndicatorSpec {
	out := slices.Clone(specs)
	slices.SortFunc(out, entity.CompareSpecs)
	return slices.Compact(out)
}
