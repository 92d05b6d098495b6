// Package usecase resolves USD exchange rates from market quotes.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/domain/normalizer"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

// BaseCurrency is the currency all provider prices are quoted in.
const BaseCurrency = "USD"

// rateWindow is the intraday window whose last close is taken as the rate.
var rateWindow = candle.Window{Period: "1d", Interval: "1m"}

// MarketDataSource supplies raw quote series.
type MarketDataSource interface {
	FetchSeries(ctx context.Context, symbol string, window candle.Window) (candle.RawSeries, error)
}

// FXRateUsecase looks up USD exchange rates.
type FXRateUsecase struct {
	source MarketDataSource
}

// NewFXRateUsecase creates an FXRateUsecase. The source is expected to be
// wrapped in its own short-lived cache.
func NewFXRateUsecase(source MarketDataSource) *FXRateUsecase {
	return &FXRateUsecase{source: source}
}

// Ticker returns the provider ticker for USD->currency, e.g. "IDR=X".
func Ticker(currency string) string { return currency + "=X" }

// GetRate returns the number of currency units per USD.
//
// It does not fall back to a default rate: provider failures are reported as
// ErrNoDataFound and nonsensical rates as ErrMalformedInput.
func (u *FXRateUsecase) GetRate(ctx context.Context, currency string) (entity.ExchangeRate, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return entity.ExchangeRate{}, fmt.Errorf("%w: currency code %q", domain.ErrMalformedInput, currency)
	}
	if code == BaseCurrency {
		return entity.ExchangeRate{Currency: code, Rate: 1}, nil
	}

	ticker := Ticker(code)
	raw, err := u.source.FetchSeries(ctx, ticker, rateWindow)
	if err != nil {
		slog.Warn("exchange rate fetch failed", "ticker", ticker, "error", err)
		return entity.ExchangeRate{}, fmt.Errorf("%w: %s", domain.ErrNoDataFound, ticker)
	}
	if raw.Symbol == "" {
		raw.Symbol = ticker
	}

	table, err := normalizer.Normalize(raw, time.UTC)
	if err != nil {
		return entity.ExchangeRate{}, err
	}
	rate := table.Rows[table.Len()-1].Close
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return entity.ExchangeRate{}, fmt.Errorf("%w: %s rate %v", domain.ErrMalformedInput, ticker, rate)
	}
	return entity.ExchangeRate{Currency: code, Rate: rate}, nil
}
