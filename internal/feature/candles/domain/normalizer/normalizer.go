// Package normalizer turns provider responses into canonical price tables.
package normalizer

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
)

// IncompleteRowPolicy decides what happens to rows with a missing field.
type IncompleteRowPolicy int

const (
	// DropIncomplete silently removes incomplete rows and counts them in Stats.
	DropIncomplete IncompleteRowPolicy = iota
	// RejectIncomplete fails the whole series with ErrMalformedInput.
	RejectIncomplete
)

// Stats describes what normalization removed.
type Stats struct {
	Input      int // rows in the raw series
	Dropped    int // incomplete rows removed
	Duplicates int // rows replaced by a later row with the same timestamp
}

type options struct {
	policy IncompleteRowPolicy
}

// Option configures Normalize.
type Option func(*options)

// WithIncompleteRows sets the policy for rows with missing values.
func WithIncompleteRows(p IncompleteRowPolicy) Option {
	return func(o *options) { o.policy = p }
}

// field order of the canonical row
const (
	fOpen = iota
	fHigh
	fLow
	fClose
	fVolume
	numFields
)

var fieldNames = [numFields]string{"open", "high", "low", "close", "volume"}

// Normalize converts raw into a CanonicalTable whose timestamps are expressed in loc.
func Normalize(raw entity.RawSeries, loc *time.Location, opts ...Option) (entity.CanonicalTable, error) {
	t, _, err := NormalizeWithStats(raw, loc, opts...)
	return t, err
}

// NormalizeWithStats is Normalize that also reports how many rows were removed.
//
// Column headers may have one or two levels; only the first level is used.
// Naive timestamps are read as UTC wall-clock times. The output is sorted
// ascending and, when a timestamp repeats, the last occurrence wins.
func NormalizeWithStats(raw entity.RawSeries, loc *time.Location, opts ...Option) (entity.CanonicalTable, Stats, error) {
	o := options{policy: DropIncomplete}
	for _, opt := range opts {
		opt(&o)
	}

	stats := Stats{Input: len(raw.Timestamps)}
	if loc == nil {
		return entity.CanonicalTable{}, stats, fmt.Errorf("%w: target location is nil", domain.ErrMalformedInput)
	}
	if raw.Empty() {
		return entity.CanonicalTable{}, stats, fmt.Errorf("%w: %s returned no rows", domain.ErrNoDataFound, raw.Symbol)
	}

	cols, err := selectColumns(raw)
	if err != nil {
		return entity.CanonicalTable{}, stats, err
	}

	rows := make([]entity.Candle, 0, len(raw.Timestamps))
	for i, ts := range raw.Timestamps {
		c, complete, err := buildRow(cols, i)
		if err != nil {
			return entity.CanonicalTable{}, stats, fmt.Errorf("row %d: %w", i, err)
		}
		if !complete {
			if o.policy == RejectIncomplete {
				return entity.CanonicalTable{}, stats, fmt.Errorf("%w: row %d has missing values", domain.ErrMalformedInput, i)
			}
			stats.Dropped++
			continue
		}
		c.Symbol = raw.Symbol
		c.Interval = raw.Interval
		c.Time = localize(ts, raw.Naive, loc)
		rows = append(rows, c)
	}

	slices.SortStableFunc(rows, func(a, b entity.Candle) int { return a.Time.Compare(b.Time) })

	out := rows[:0]
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].Time.Equal(r.Time) {
			out[n-1] = r
			stats.Duplicates++
			continue
		}
		out = append(out, r)
	}

	if len(out) == 0 {
		return entity.CanonicalTable{}, stats, fmt.Errorf("%w: %s has no complete rows", domain.ErrNoDataFound, raw.Symbol)
	}

	return entity.CanonicalTable{
		Symbol:   raw.Symbol,
		Interval: raw.Interval,
		Location: loc,
		Rows:     out,
	}, stats, nil
}

// selectColumns collapses headers to their field name and picks the five OHLCV columns.
func selectColumns(raw entity.RawSeries) ([numFields][]null.Float, error) {
	var cols [numFields][]null.Float
	var seen [numFields]bool

	for _, c := range raw.Columns {
		name := strings.ToLower(strings.TrimSpace(c.Field()))
		idx := slices.Index(fieldNames[:], name)
		if idx < 0 {
			continue
		}
		if seen[idx] {
			return cols, fmt.Errorf("%w: column %q appears more than once", domain.ErrMalformedInput, name)
		}
		if len(c.Values) != len(raw.Timestamps) {
			return cols, fmt.Errorf("%w: column %q has %d values for %d timestamps",
				domain.ErrMalformedInput, name, len(c.Values), len(raw.Timestamps))
		}
		seen[idx] = true
		cols[idx] = c.Values
	}

	for i, ok := range seen {
		if !ok {
			return cols, fmt.Errorf("%w: missing column %q", domain.ErrMalformedInput, fieldNames[i])
		}
	}
	return cols, nil
}

// buildRow reads row i. complete is false when any field is null or non-finite.
func buildRow(cols [numFields][]null.Float, i int) (entity.Candle, bool, error) {
	var v [numFields]float64
	for f := range numFields {
		x := cols[f][i]
		if !x.Valid || math.IsNaN(x.Float64) || math.IsInf(x.Float64, 0) {
			return entity.Candle{}, false, nil
		}
		v[f] = x.Float64
	}
	if v[fVolume] < 0 {
		return entity.Candle{}, false, fmt.Errorf("%w: negative volume %v", domain.ErrMalformedInput, v[fVolume])
	}
	// float64(MaxInt64) は 2^63 に丸められるため >= で比較する
	if math.Round(v[fVolume]) >= math.MaxInt64 {
		return entity.Candle{}, false, fmt.Errorf("%w: volume %v overflows int64", domain.ErrMalformedInput, v[fVolume])
	}
	return entity.Candle{
		Open:   v[fOpen],
		High:   v[fHigh],
		Low:    v[fLow],
		Close:  v[fClose],
		Volume: int64(math.Round(v[fVolume])),
	}, true, nil
}

// localize labels naive timestamps as UTC and converts to loc.
func localize(ts time.Time, naive bool, loc *time.Location) time.Time {
	if naive {
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC)
	}
	return ts.In(loc)
}
