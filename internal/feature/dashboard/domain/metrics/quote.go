package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

// Quote measures the move from the first open to the last close of table.
func Quote(table candle.CanonicalTable, rate *entity.ExchangeRate) (entity.Quote, error) {
	if table.Len() == 0 {
		return entity.Quote{}, fmt.Errorf("%w: no rows to quote", domain.ErrInsufficientData)
	}
	if err := validateRate(rate); err != nil {
		return entity.Quote{}, err
	}

	open := table.Rows[0].Open
	last := table.Rows[len(table.Rows)-1].Close
	if open == 0 {
		return entity.Quote{}, fmt.Errorf("%w: opening price of %s is 0", domain.ErrDivisionByZero, table.Symbol)
	}

	q := entity.Quote{
		Symbol:        table.Symbol,
		Last:          last,
		Open:          open,
		Change:        last - open,
		PercentChange: (last - open) / open * 100,
	}
	if rate != nil {
		v := convert(last, decimal.NewFromFloat(rate.Rate))
		q.ConvertedLast = &v
	}
	return q, nil
}
