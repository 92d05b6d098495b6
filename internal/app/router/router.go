// Package router はHTTPルーティングを組み立てます。
package router

import (
	"github.com/gin-gonic/gin"

	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	dashboardhandler "stock_dashboard/internal/feature/dashboard/transport/handler"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/http/middleware"
	"stock_dashboard/internal/platform/metrics"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health    *handler.HealthHandler
	Candles   *candleshandler.CandlesHandler
	Dashboard *dashboardhandler.DashboardHandler
	Symbols   *symbollisthandler.SymbolHandler
}

// NewRouter builds the gin engine. m may be nil, in which case /metrics is not served.
func NewRouter(h Handlers, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if m != nil {
		r.Use(m.GinMiddleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 閲覧専用APIのため認証は不要
	r.GET("/symbols", h.Symbols.List)
	r.GET("/candles/:code", h.Candles.GetCandlesHandler)
	r.GET("/dashboard/:code", h.Dashboard.GetDashboard)
	r.GET("/watchlist", h.Dashboard.GetWatchlist)

	return r
}
