package indicator

import (
	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"
)

// EMA returns the exponential moving average with alpha = 2/(window+1).
// The first value sits at window-1 and is the SMA of the first window closes.
func EMA(closes []float64, window int) []null.Float {
	if window <= 0 || len(closes) < window {
		return make([]null.Float, len(closes))
	}
	return fromTALib(talib.Ema(closes, window), window-1)
}
