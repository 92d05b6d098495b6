package indicator

import (
	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"
)

// SMA returns the simple moving average of closes over window.
// out[i] is null for i < window-1.
func SMA(closes []float64, window int) []null.Float {
	if window <= 0 || len(closes) < window {
		return make([]null.Float, len(closes))
	}
	return fromTALib(talib.Sma(closes, window), window-1)
}

// fromTALib wraps a talib output column. talib fills the lookback with
// zeros, so everything before first is null.
func fromTALib(raw []float64, first int) []null.Float {
	out := make([]null.Float, len(raw))
	for i := first; i < len(raw); i++ {
		out[i] = null.FloatFrom(raw[i])
	}
	return out
}
