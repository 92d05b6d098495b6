package entity

import (
	"time"

	"github.com/guregu/null/v6"
)

// RawColumn is one provider column. Levels[0] is the field name ("Open",
// "close", "adjclose", ...); an optional Levels[1] carries the grouping key,
// usually the ticker, as multi-ticker providers report it.
type RawColumn struct {
	Levels []string     `json:"levels"`
	Values []null.Float `json:"values"`
}

// Field returns the first column level.
func (c RawColumn) Field() string {
	if len(c.Levels) == 0 {
		return ""
	}
	return c.Levels[0]
}

// RawSeries is the provider response before normalization.
// Values may be missing (null) and rows may come in any order.
type RawSeries struct {
	Symbol     string      `json:"symbol"`
	Interval   string      `json:"interval"`
	Timestamps []time.Time `json:"timestamps"`
	// Naive reports that Timestamps carry only a wall-clock reading.
	// The wall clock is stored in the UTC location.
	Naive   bool        `json:"naive"`
	Columns []RawColumn `json:"columns"`
}

// Empty reports whether the series has no rows.
func (s RawSeries) Empty() bool { return len(s.Timestamps) == 0 }

// Window describes what a provider should return for a fetch.
// When Start and End are set they take precedence over Period.
type Window struct {
	Period   string    // Provider range, e.g. "1d", "1mo", "max"
	Interval string    // Sampling interval, e.g. "5m", "1d"
	Start    time.Time // Optional explicit start
	End      time.Time // Optional explicit end
}

// Explicit reports whether the window uses Start/End instead of Period.
func (w Window) Explicit() bool { return !w.Start.IsZero() && !w.End.IsZero() }
