package indicator

import (
	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"
)

// RSI returns Wilder's relative strength index over window (at least 2).
//
// The first averages are plain means of the first window close-to-close
// changes, so the first value sits at index window. A window with no losses
// reads 100.
func RSI(closes []float64, window int) []null.Float {
	if window < 2 || len(closes) <= window {
		return make([]null.Float, len(closes))
	}
	out := fromTALib(talib.Rsi(closes, window), window)

	// talib は変化がない区間で 0 を返す。平均損失 0 は下落がまだ無いことと同じ
	for i := 1; i < len(closes) && closes[i] >= closes[i-1]; i++ {
		if i >= window {
			out[i] = null.FloatFrom(100)
		}
	}
	return out
}
