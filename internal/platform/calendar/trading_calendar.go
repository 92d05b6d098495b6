// Package calendar reports exchange trading days and sessions.
package calendar

import (
	"log/slog"
	"time"

	"github.com/scmhub/calendar"
)

// DefaultMIC is the New York Stock Exchange.
const DefaultMIC = "xnys"

// TradingCalendar answers session questions for one exchange.
// When the exchange calendar cannot be loaded it falls back to
// Monday-Friday 09:30-16:00 New York time.
type TradingCalendar struct {
	cal *calendar.Calendar
	loc *time.Location
}

// New loads the calendar for the ISO 10383 market identifier mic.
func New(mic string) *TradingCalendar {
	if mic == "" {
		mic = DefaultMIC
	}
	cal := calendar.GetCalendar(mic)
	if cal == nil && mic != DefaultMIC {
		slog.Warn("unknown market calendar, using NYSE", "mic", mic)
		cal = calendar.GetCalendar(DefaultMIC)
	}
	if cal == nil {
		slog.Warn("market calendar unavailable, using weekday fallback", "mic", mic)
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		return &TradingCalendar{loc: loc}
	}
	return &TradingCalendar{cal: cal, loc: cal.Loc}
}

// Location is the exchange time zone.
func (tc *TradingCalendar) Location() *time.Location { return tc.loc }

// IsTradingDay reports whether the exchange trades on t's local date.
func (tc *TradingCalendar) IsTradingDay(t time.Time) bool {
	t = t.In(tc.loc)
	if tc.cal == nil {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.cal.IsBusinessDay(t)
}

// IsOpen reports whether the regular session is open at t.
func (tc *TradingCalendar) IsOpen(t time.Time) bool {
	t = t.In(tc.loc)
	if tc.cal == nil {
		if !tc.IsTradingDay(t) {
			return false
		}
		minutes := t.Hour()*60 + t.Minute()
		return minutes >= 9*60+30 && minutes < 16*60
	}
	return tc.cal.IsOpen(t)
}
