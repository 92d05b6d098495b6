package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/externalapi/twelvedata/dto"
)

// intervals は内部の時間足表記をTwelve Dataの表記に変換します。
var intervals = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"30m": "30min",
	"1d":  "1day",
	"1wk": "1week",
}

// outputSizes は期間ごとに要求するバー数です。
var outputSizes = map[string]int{
	"1d":  78,
	"1mo": 23,
	"3mo": 66,
	"1y":  53,
	"max": 5000,
}

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketDataSource実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがMarketDataSourceを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataSource = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// FetchSeries はTwelve Data APIから時系列データを取得します。
//
// 日時はUTCで要求し、タイムゾーン情報のない(naive)系列として返します。
// 行は新しい順のまま返し、並べ替えは正規化に任せます。
func (t *TwelveDataMarket) FetchSeries(ctx context.Context, symbol string, window entity.Window) (entity.RawSeries, error) {
	interval, ok := intervals[window.Interval]
	if !ok {
		return entity.RawSeries{}, fmt.Errorf("twelvedata: unsupported interval %q", window.Interval)
	}

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", providerSymbol(symbol))
	q.Set("interval", interval)
	q.Set("timezone", "UTC")
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	if window.Explicit() {
		q.Set("start_date", window.Start.UTC().Format(time.DateTime))
		q.Set("end_date", window.End.UTC().Format(time.DateTime))
	} else {
		size, ok := outputSizes[window.Period]
		if !ok {
			return entity.RawSeries{}, fmt.Errorf("twelvedata: unsupported period %q", window.Period)
		}
		q.Set("outputsize", strconv.Itoa(size))
	}

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.RawSeries{}, err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return entity.RawSeries{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.RawSeries{}, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.RawSeries{}, err
	}
	if body.Status == "error" {
		return entity.RawSeries{}, fmt.Errorf("twelvedata: %s", body.Message)
	}

	n := len(body.Values)
	out := entity.RawSeries{
		Symbol:     symbol,
		Interval:   window.Interval,
		Naive:      true,
		Timestamps: make([]time.Time, 0, n),
	}
	var o, h, l, c, v []null.Float
	for _, row := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse(time.DateTime, row.Datetime)
		if err != nil {
			tm, err = time.Parse(time.DateOnly, row.Datetime)
			if err != nil {
				return entity.RawSeries{}, fmt.Errorf("parse time %q: %w", row.Datetime, err)
			}
		}
		fields := []struct {
			name string
			raw  string
			dst  *[]null.Float
		}{
			{"open", row.Open, &o},
			{"high", row.High, &h},
			{"low", row.Low, &l},
			{"close", row.Close, &c},
			{"volume", row.Volume, &v},
		}
		for _, f := range fields {
			x, err := parseValue(f.name, f.raw)
			if err != nil {
				return entity.RawSeries{}, err
			}
			*f.dst = append(*f.dst, x)
		}
		out.Timestamps = append(out.Timestamps, tm)
	}
	out.Columns = []entity.RawColumn{
		{Levels: []string{"open"}, Values: o},
		{Levels: []string{"high"}, Values: h},
		{Levels: []string{"low"}, Values: l},
		{Levels: []string{"close"}, Values: c},
		{Levels: []string{"volume"}, Values: v},
	}
	return out, nil
}

// parseValue は文字列の数値をパースします。
// 為替ペアには出来高がないため、空の出来高は0として扱います。
func parseValue(name, s string) (null.Float, error) {
	if s == "" {
		if name == "volume" {
			return null.FloatFrom(0), nil
		}
		return null.Float{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return null.FloatFrom(f), nil
}

// providerSymbol はYahoo形式の為替ティッカー("IDR=X")をTwelve Data形式("USD/IDR")に変換します。
func providerSymbol(symbol string) string {
	if quote, ok := strings.CutSuffix(symbol, "=X"); ok && len(quote) == 3 {
		return "USD/" + quote
	}
	return symbol
}
