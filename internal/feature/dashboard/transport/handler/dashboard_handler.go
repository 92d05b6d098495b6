// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"stock_dashboard/internal/api"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
	"stock_dashboard/internal/feature/dashboard/usecase"
	"stock_dashboard/internal/shared/httperror"
)

// DashboardUsecase はダッシュボード用ユースケースのインターフェースです。
type DashboardUsecase interface {
	Dashboard(ctx context.Context, q usecase.DashboardQuery) (usecase.DashboardResult, error)
}

// WatchlistUsecase はウォッチリスト用ユースケースのインターフェースです。
type WatchlistUsecase interface {
	Watchlist(ctx context.Context, currency string) (usecase.WatchlistResult, error)
}

// DashboardHandler serves /dashboard and /watchlist.
type DashboardHandler struct {
	dashboard DashboardUsecase
	watchlist WatchlistUsecase
}

// NewDashboardHandler は新しい DashboardHandler を作成します。
func NewDashboardHandler(dashboard DashboardUsecase, watchlist WatchlistUsecase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, watchlist: watchlist}
}

// GetDashboard は価格表・指標・集計値をまとめて返します。
//
// エンドポイント例:
// GET /dashboard/:code?period=1mo&indicators=SMA_20,EMA_20,RSI_14&currency=IDR
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var code api.Code
	if err := runtime.BindStyledParameterWithOptions("simple", "code", c.Param("code"), &code,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		httperror.BadRequest(c, err)
		return
	}

	var params api.GetDashboardParams
	query := c.Request.URL.Query()
	for name, dest := range map[string]any{
		"period":     &params.Period,
		"indicators": &params.Indicators,
		"currency":   &params.Currency,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			httperror.BadRequest(c, err)
			return
		}
	}

	q := usecase.DashboardQuery{Symbol: code, Period: candleusecase.DefaultPeriod}
	if params.Period != nil {
		q.Period = string(*params.Period)
	}
	if params.Currency != nil {
		q.Currency = *params.Currency
	}
	if params.Indicators != nil {
		specs, err := entity.ParseSpecs(*params.Indicators)
		if err != nil {
			httperror.Respond(c, err)
			return
		}
		q.Indicators = specs
	}

	res, err := h.dashboard.Dashboard(c.Request.Context(), q)
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toDashboardResponse(q.Period, res))
}

// GetWatchlist はウォッチリスト全銘柄の当日の値動きを返します。
//
// エンドポイント例:
// GET /watchlist?currency=IDR
func (h *DashboardHandler) GetWatchlist(c *gin.Context) {
	var params api.GetWatchlistParams
	if err := runtime.BindQueryParameter("form", true, false, "currency", c.Request.URL.Query(), &params.Currency); err != nil {
		httperror.BadRequest(c, err)
		return
	}
	currency := ""
	if params.Currency != nil {
		currency = *params.Currency
	}

	res, err := h.watchlist.Watchlist(c.Request.Context(), currency)
	if err != nil {
		httperror.Respond(c, err)
		return
	}

	items := make([]api.WatchlistItem, 0, len(res.Items))
	for _, it := range res.Items {
		item := api.WatchlistItem{Symbol: it.Symbol}
		if it.Err != nil {
			item.Error = ptr(it.Err.Error())
		}
		if q := it.Quote; q != nil {
			item.Last = ptr(q.Last)
			item.Open = ptr(q.Open)
			item.Change = ptr(q.Change)
			item.PercentChange = ptr(q.PercentChange)
			item.ConvertedLast = q.ConvertedLast
			item.Display = ptr(quoteDisplay(*q))
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, api.WatchlistResponse{
		MarketOpen: res.MarketOpen,
		Conversion: toConversion(res.Conversion),
		Items:      items,
	})
}

func toDashboardResponse(period string, res usecase.DashboardResult) api.DashboardResponse {
	t := res.Table
	out := api.DashboardResponse{
		Symbol:     t.Symbol,
		Period:     period,
		Interval:   t.Interval,
		Timezone:   time.UTC.String(),
		Indicators: make([]string, 0, len(t.Columns)),
		Rows:       make([]api.DashboardRow, 0, t.Len()),
		Conversion: toConversion(res.Conversion),
	}
	if t.Location != nil {
		out.Timezone = t.Location.String()
	}
	for _, col := range t.Columns {
		out.Indicators = append(out.Indicators, col.Name())
	}

	for i, r := range t.Rows {
		values := make(map[string]*float64, len(t.Columns))
		for _, v := range t.Indicators(i) {
			values[v.Name] = v.Value.Ptr()
		}
		out.Rows = append(out.Rows, api.DashboardRow{
			Time:       r.Time.Format(time.RFC3339),
			Open:       r.Open,
			High:       r.High,
			Low:        r.Low,
			Close:      r.Close,
			Volume:     r.Volume,
			Indicators: values,
		})
	}

	if m := res.Metrics; m != nil {
		mr := &api.MetricsResponse{
			LastClose:      m.LastClose,
			FirstClose:     m.FirstClose,
			AbsoluteChange: m.AbsoluteChange,
			PercentChange:  m.PercentChange,
			PeriodHigh:     m.PeriodHigh,
			PeriodLow:      m.PeriodLow,
			TotalVolume:    m.TotalVolume,
			Display:        metricsDisplay(*m),
		}
		if cv := m.Converted; cv != nil {
			mr.Converted = &api.ConvertedMetricsResponse{
				Currency:       cv.Currency,
				Rate:           cv.Rate,
				LastClose:      cv.LastClose,
				FirstClose:     cv.FirstClose,
				AbsoluteChange: cv.AbsoluteChange,
				PeriodHigh:     cv.PeriodHigh,
				PeriodLow:      cv.PeriodLow,
				Display:        convertedDisplay(*cv, *m),
			}
		}
		out.Metrics = mr
	}
	if res.MetricsErr != nil {
		out.MetricsError = ptr(res.MetricsErr.Error())
	}

	if len(res.IndicatorErrors) > 0 {
		errs := make([]api.IndicatorErrorResponse, 0, len(res.IndicatorErrors))
		for _, ie := range res.IndicatorErrors {
			errs = append(errs, api.IndicatorErrorResponse{Indicator: ie.Spec.Name(), Error: ie.Err.Error()})
		}
		out.IndicatorErrors = &errs
	}
	return out
}

func toConversion(c *usecase.Conversion) *api.ConversionResponse {
	if c == nil {
		return nil
	}
	out := &api.ConversionResponse{Currency: c.Currency}
	if c.Rate != nil {
		out.Rate = ptr(c.Rate.Rate)
		src := api.ConversionResponseRateSource(c.Source)
		out.RateSource = &src
	}
	if c.Err != nil {
		out.FxError = ptr(c.Err.Error())
	}
	return out
}

func ptr[T any](v T) *T { return &v }
