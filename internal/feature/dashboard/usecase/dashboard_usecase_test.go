package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

// mockCandlesGetter はCandlesGetterのモック実装です。
type mockCandlesGetter struct {
	GetCandlesFunc func(ctx context.Context, symbol, period string) (candle.CanonicalTable, error)
}

func (m *mockCandlesGetter) GetCandles(ctx context.Context, symbol, period string) (candle.CanonicalTable, error) {
	if m.GetCandlesFunc != nil {
		return m.GetCandlesFunc(ctx, symbol, period)
	}
	return candle.CanonicalTable{}, nil
}

// mockRateGetter はRateGetterのモック実装です。
type mockRateGetter struct {
	GetRateFunc func(ctx context.Context, currency string) (entity.ExchangeRate, error)
}

func (m *mockRateGetter) GetRate(ctx context.Context, currency string) (entity.ExchangeRate, error) {
	return m.GetRateFunc(ctx, currency)
}

func tableOf(symbol string, closes ...float64) candle.CanonicalTable {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]candle.Candle, len(closes))
	for i, c := range closes {
		rows[i] = candle.Candle{
			Symbol: symbol, Interval: "1d", Time: start.AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return candle.CanonicalTable{Symbol: symbol, Interval: "1d", Location: time.UTC, Rows: rows}
}

func staticCandles(table candle.CanonicalTable) *mockCandlesGetter {
	return &mockCandlesGetter{
		GetCandlesFunc: func(ctx context.Context, symbol, period string) (candle.CanonicalTable, error) {
			return table, nil
		},
	}
}

func liveRate(rate float64) *mockRateGetter {
	return &mockRateGetter{
		GetRateFunc: func(ctx context.Context, currency string) (entity.ExchangeRate, error) {
			return entity.ExchangeRate{Currency: currency, Rate: rate}, nil
		},
	}
}

func failingRate() *mockRateGetter {
	return &mockRateGetter{
		GetRateFunc: func(ctx context.Context, currency string) (entity.ExchangeRate, error) {
			return entity.ExchangeRate{}, domain.ErrNoDataFound
		},
	}
}

var idrFallback = Config{FallbackCurrency: "IDR", FallbackRate: 15700}

func TestDashboard_HistoryErrorIsReturned(t *testing.T) {
	t.Parallel()

	candles := &mockCandlesGetter{
		GetCandlesFunc: func(ctx context.Context, symbol, period string) (candle.CanonicalTable, error) {
			return candle.CanonicalTable{}, domain.ErrNoDataFound
		},
	}
	uc := NewDashboardUsecase(candles, liveRate(15000), idrFallback)

	_, err := uc.Dashboard(context.Background(), DashboardQuery{Symbol: "ZZZZ", Period: "1mo"})
	assert.ErrorIs(t, err, domain.ErrNoDataFound)
}

func TestDashboard_PassesSymbolAndPeriod(t *testing.T) {
	t.Parallel()

	var gotSymbol, gotPeriod string
	candles := &mockCandlesGetter{
		GetCandlesFunc: func(ctx context.Context, symbol, period string) (candle.CanonicalTable, error) {
			gotSymbol, gotPeriod = symbol, period
			return tableOf(symbol, 1, 2, 3), nil
		},
	}
	uc := NewDashboardUsecase(candles, nil, Config{})

	_, err := uc.Dashboard(context.Background(), DashboardQuery{Symbol: "MSFT", Period: "3mo"})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", gotSymbol)
	assert.Equal(t, "3mo", gotPeriod)
}

func TestDashboard_IndicatorErrorsAreIsolated(t *testing.T) {
	t.Parallel()

	uc := NewDashboardUsecase(staticCandles(tableOf("AAPL", 100, 102, 101, 105, 103)), nil, Config{})

	res, err := uc.Dashboard(context.Background(), DashboardQuery{
		Symbol: "AAPL",
		Period: "1mo",
		Indicators: []entity.IndicatorSpec{
			{Kind: entity.RSI, Window: 14},
			{Kind: entity.SMA, Window: 3},
			{Kind: entity.SMA, Window: 3},
			{Kind: entity.SMA, Window: 20},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Table.Columns, 1)
	assert.Equal(t, "SMA_3", res.Table.Columns[0].Name())
	assert.InDelta(t, 101.0, res.Table.Columns[0].Values[2].Float64, 1e-9)

	require.Len(t, res.IndicatorErrors, 2)
	assert.Equal(t, "SMA_20", res.IndicatorErrors[0].Spec.Name())
	assert.Equal(t, "RSI_14", res.IndicatorErrors[1].Spec.Name())
	for _, ie := range res.IndicatorErrors {
		assert.ErrorIs(t, ie.Err, domain.ErrInsufficientData)
	}

	require.NotNil(t, res.Metrics)
	assert.Nil(t, res.Conversion)
}

func TestDashboard_DefaultIndicators(t *testing.T) {
	t.Parallel()

	cfg := Config{Indicators: []entity.IndicatorSpec{{Kind: entity.EMA, Window: 2}, {Kind: entity.SMA, Window: 2}}}
	uc := NewDashboardUsecase(staticCandles(tableOf("AAPL", 1, 2, 3, 4)), nil, cfg)

	res, err := uc.Dashboard(context.Background(), DashboardQuery{Symbol: "AAPL", Period: "1mo"})
	require.NoError(t, err)
	require.Len(t, res.Table.Columns, 2)
	assert.Equal(t, "SMA_2", res.Table.Columns[0].Name())
	assert.Equal(t, "EMA_2", res.Table.Columns[1].Name())
}

func TestDashboard_MetricsErrorKeepsTable(t *testing.T) {
	t.Parallel()

	uc := NewDashboardUsecase(staticCandles(tableOf("AAPL", 0, 5, 10)), nil, Config{})

	res, err := uc.Dashboard(context.Background(), DashboardQuery{Symbol: "AAPL", Period: "1mo"})
	require.NoError(t, err)
	assert.Nil(t, res.Metrics)
	assert.ErrorIs(t, res.MetricsErr, domain.ErrDivisionByZero)
	assert.Equal(t, 3, res.Table.Len())
}

func TestDashboard_Conversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rates      RateGetter
		currency   string
		wantSource string
		wantRate   float64
		wantErr    bool
		wantNoRate bool
	}{
		{
			name:       "success: live rate",
			rates:      liveRate(15000),
			currency:   "idr",
			wantSource: RateSourceLive,
			wantRate:   15000,
		},
		{
			name:       "success: fallback when lookup fails",
			rates:      failingRate(),
			currency:   "IDR",
			wantSource: RateSourceFallback,
			wantRate:   15700,
			wantErr:    true,
		},
		{
			name:       "success: fallback when no lookup is configured",
			rates:      nil,
			currency:   "IDR",
			wantSource: RateSourceFallback,
			wantRate:   15700,
			wantErr:    true,
		},
		{
			name:       "error: no fallback for another currency",
			rates:      failingRate(),
			currency:   "EUR",
			wantErr:    true,
			wantNoRate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := NewDashboardUsecase(staticCandles(tableOf("AAPL", 100, 110)), tt.rates, idrFallback)
			res, err := uc.Dashboard(context.Background(), DashboardQuery{Symbol: "AAPL", Period: "1mo", Currency: tt.currency})
			require.NoError(t, err)
			require.NotNil(t, res.Conversion)
			require.NotNil(t, res.Metrics)

			if tt.wantErr {
				assert.Error(t, res.Conversion.Err)
			} else {
				assert.NoError(t, res.Conversion.Err)
			}
			if tt.wantNoRate {
				assert.Nil(t, res.Conversion.Rate)
				assert.Nil(t, res.Metrics.Converted)
				return
			}
			require.NotNil(t, res.Conversion.Rate)
			assert.Equal(t, tt.wantSource, res.Conversion.Source)
			assert.Equal(t, tt.wantRate, res.Conversion.Rate.Rate)
			require.NotNil(t, res.Metrics.Converted)
			assert.InDelta(t, 110*tt.wantRate, res.Metrics.Converted.LastClose, 1e-6)
		})
	}
}
