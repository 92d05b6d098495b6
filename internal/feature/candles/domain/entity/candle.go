// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents one normalized OHLCV row of a price series.
type Candle struct {
	Symbol   string    // Stock ticker symbol (e.g., "AAPL", "IDR=X")
	Interval string    // Sampling interval (e.g., "5m", "1d", "1wk")
	Time     time.Time // Bar timestamp, expressed in the table's location
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   int64     // Trading volume
}

// CanonicalTable is the normalized price series consumed by metrics and indicators.
//
// Rows are strictly ascending by Time with one row per timestamp, and every
// timestamp is expressed in Location. A table is never modified after the
// normalizer returns it.
type CanonicalTable struct {
	Symbol   string
	Interval string
	Location *time.Location
	Rows     []Candle
}

// Len returns the number of rows.
func (t CanonicalTable) Len() int { return len(t.Rows) }

// Closes returns a copy of the close column.
func (t CanonicalTable) Closes() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Close
	}
	return out
}
