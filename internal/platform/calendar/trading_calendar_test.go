package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingCalendar_NYSE(t *testing.T) {
	t.Parallel()

	tc := New("")
	require.NotNil(t, tc.Location())
	ny := tc.Location()

	tests := []struct {
		name       string
		at         time.Time
		tradingDay bool
		open       bool
	}{
		{"weekday mid session", time.Date(2024, 7, 2, 11, 0, 0, 0, ny), true, true},
		{"weekday before open", time.Date(2024, 7, 2, 8, 0, 0, 0, ny), true, false},
		{"weekday after close", time.Date(2024, 7, 2, 17, 0, 0, 0, ny), true, false},
		{"saturday", time.Date(2024, 7, 6, 11, 0, 0, 0, ny), false, false},
		{"christmas", time.Date(2024, 12, 25, 11, 0, 0, 0, ny), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.tradingDay, tc.IsTradingDay(tt.at))
			assert.Equal(t, tt.open, tc.IsOpen(tt.at))
		})
	}
}

func TestTradingCalendar_Fallback(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	tc := &TradingCalendar{loc: ny}

	assert.True(t, tc.IsOpen(time.Date(2024, 7, 2, 9, 30, 0, 0, ny)))
	assert.False(t, tc.IsOpen(time.Date(2024, 7, 2, 16, 0, 0, 0, ny)))
	assert.False(t, tc.IsTradingDay(time.Date(2024, 7, 7, 12, 0, 0, 0, ny)))
}
