package usecase

import (
	"fmt"
	"strings"
	"time"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
)

const (
	// DefaultPeriod is used when a request does not name one.
	DefaultPeriod = "1mo"
	// WatchlistPeriod is the intraday window used for watchlist quotes.
	WatchlistPeriod = "1d"
)

// periodIntervals maps a display period to the sampling interval requested from the provider.
var periodIntervals = map[string]string{
	"1d":  "5m",
	"1wk": "30m",
	"1mo": "1d",
	"3mo": "1d",
	"1y":  "1wk",
	"max": "1wk",
}

// periods lists the supported periods from shortest to longest.
var periods = []string{"1d", "1wk", "1mo", "3mo", "1y", "max"}

// ResolveWindow returns the fetch window for period.
// The one-week period is requested as an explicit seven day range ending at now.
func ResolveWindow(period string, now time.Time) (entity.Window, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		p = DefaultPeriod
	}
	interval, ok := periodIntervals[p]
	if !ok {
		return entity.Window{}, fmt.Errorf("%w: unsupported period %q (want one of %s)",
			domain.ErrMalformedInput, period, strings.Join(periods, ", "))
	}
	w := entity.Window{Period: p, Interval: interval}
	if p == "1wk" {
		w.End = now
		w.Start = now.AddDate(0, 0, -7)
	}
	return w, nil
}
