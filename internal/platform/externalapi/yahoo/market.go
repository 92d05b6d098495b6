package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/yahoo/dto"
)

// YahooMarket fetches chart data from Yahoo Finance.
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

var _ usecase.MarketDataSource = (*YahooMarket)(nil)

// NewYahooMarket creates a YahooMarket.
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// FetchSeries returns the chart for symbol as a two-level (field, symbol) raw series.
// Timestamps are UTC instants; missing bars keep their nulls.
func (y *YahooMarket) FetchSeries(ctx context.Context, symbol string, window entity.Window) (entity.RawSeries, error) {
	q := url.Values{}
	q.Set("interval", window.Interval)
	if window.Explicit() {
		q.Set("period1", strconv.FormatInt(window.Start.Unix(), 10))
		q.Set("period2", strconv.FormatInt(window.End.Unix(), 10))
	} else {
		q.Set("range", window.Period)
	}
	q.Set("includePrePost", "false")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.RawSeries{}, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return entity.RawSeries{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)
	if body.Chart.Error != nil {
		return entity.RawSeries{}, fmt.Errorf("yahoo api error: %s", body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return entity.RawSeries{}, fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	if decodeErr != nil {
		return entity.RawSeries{}, fmt.Errorf("yahoo decode: %w", decodeErr)
	}

	out := entity.RawSeries{Symbol: symbol, Interval: window.Interval}
	if len(body.Chart.Result) == 0 {
		return out, nil
	}
	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return out, nil
	}

	out.Timestamps = make([]time.Time, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		out.Timestamps[i] = time.Unix(ts, 0).UTC()
	}

	quote := result.Indicators.Quote[0]
	out.Columns = []entity.RawColumn{
		column("Open", symbol, quote.Open),
		column("High", symbol, quote.High),
		column("Low", symbol, quote.Low),
		column("Close", symbol, quote.Close),
		column("Volume", symbol, quote.Volume),
	}
	if len(result.Indicators.AdjClose) > 0 {
		out.Columns = append(out.Columns, column("Adj Close", symbol, result.Indicators.AdjClose[0].AdjClose))
	}
	return out, nil
}

func column(field, symbol string, values []*float64) entity.RawColumn {
	out := make([]null.Float, len(values))
	for i, v := range values {
		out[i] = null.FloatFromPtr(v)
	}
	return entity.RawColumn{Levels: []string{field, symbol}, Values: out}
}
