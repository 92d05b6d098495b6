// Package metrics computes summary statistics of a canonical table.
package metrics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

// Compute summarizes table. When rate is non-nil the price fields are also
// reported in rate.Currency; volume is never converted.
//
// First and last rows are taken in table order. An empty table fails with
// ErrInsufficientData and a zero first close fails with ErrDivisionByZero.
func Compute(table candle.CanonicalTable, rate *entity.ExchangeRate) (entity.MetricsRecord, error) {
	if table.Len() == 0 {
		return entity.MetricsRecord{}, fmt.Errorf("%w: no rows to summarize", domain.ErrInsufficientData)
	}
	if err := validateRate(rate); err != nil {
		return entity.MetricsRecord{}, err
	}

	first := table.Rows[0]
	last := table.Rows[len(table.Rows)-1]
	if first.Close == 0 {
		return entity.MetricsRecord{}, fmt.Errorf("%w: first close of %s is 0", domain.ErrDivisionByZero, table.Symbol)
	}

	high, low := math.Inf(-1), math.Inf(1)
	var volume int64
	for _, r := range table.Rows {
		high = math.Max(high, r.High)
		low = math.Min(low, r.Low)
		if r.Volume < 0 || r.Volume > math.MaxInt64-volume {
			return entity.MetricsRecord{}, fmt.Errorf("%w: total volume of %s overflows int64", domain.ErrMalformedInput, table.Symbol)
		}
		volume += r.Volume
	}

	change := last.Close - first.Close
	rec := entity.MetricsRecord{
		LastClose:      last.Close,
		FirstClose:     first.Close,
		AbsoluteChange: change,
		PercentChange:  change / first.Close * 100,
		PeriodHigh:     high,
		PeriodLow:      low,
		TotalVolume:    volume,
	}

	if rate != nil {
		r := decimal.NewFromFloat(rate.Rate)
		rec.Converted = &entity.ConvertedMetrics{
			Currency:       rate.Currency,
			Rate:           rate.Rate,
			LastClose:      convert(rec.LastClose, r),
			FirstClose:     convert(rec.FirstClose, r),
			AbsoluteChange: convert(rec.AbsoluteChange, r),
			PeriodHigh:     convert(rec.PeriodHigh, r),
			PeriodLow:      convert(rec.PeriodLow, r),
		}
	}
	return rec, nil
}

func convert(v float64, rate decimal.Decimal) float64 {
	return decimal.NewFromFloat(v).Mul(rate).InexactFloat64()
}

func validateRate(rate *entity.ExchangeRate) error {
	if rate == nil {
		return nil
	}
	if math.IsNaN(rate.Rate) || math.IsInf(rate.Rate, 0) || rate.Rate <= 0 {
		return fmt.Errorf("%w: exchange rate %v", domain.ErrMalformedInput, rate.Rate)
	}
	return nil
}
