package entity

// ExchangeRate converts prices quoted in USD into Currency.
type ExchangeRate struct {
	Currency string  // ISO code of the target currency, e.g. "IDR"
	Rate     float64 // Units of Currency per USD
}

// MetricsRecord summarizes a canonical table.
type MetricsRecord struct {
	LastClose      float64
	FirstClose     float64
	AbsoluteChange float64
	PercentChange  float64
	PeriodHigh     float64
	PeriodLow      float64
	TotalVolume    int64

	// Converted is set only when an exchange rate was supplied.
	Converted *ConvertedMetrics
}

// ConvertedMetrics are the price fields of a MetricsRecord multiplied by Rate.
// Volume and percent change do not depend on the currency.
type ConvertedMetrics struct {
	Currency       string
	Rate           float64
	LastClose      float64
	FirstClose     float64
	AbsoluteChange float64
	PeriodHigh     float64
	PeriodLow      float64
}

// Quote is the intraday summary shown for each watchlist symbol.
type Quote struct {
	Symbol        string
	Last          float64 // last close
	Open          float64 // first open of the window
	Change        float64
	PercentChange float64

	ConvertedLast *float64 // Last in the requested currency
}
