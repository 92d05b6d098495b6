// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/shared/httperror"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, period string) (entity.CanonicalTable, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと期間を受け取り、正規化済みのローソク足をJSONで返します。
//
// エンドポイント例:
// GET /candles/:code?period=1mo
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	var code api.Code
	if err := runtime.BindStyledParameterWithOptions("simple", "code", c.Param("code"), &code,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		httperror.BadRequest(c, err)
		return
	}
	var params api.GetCandlesParams
	if err := runtime.BindQueryParameter("form", true, false, "period", c.Request.URL.Query(), &params.Period); err != nil {
		httperror.BadRequest(c, err)
		return
	}
	// 未指定の場合はデフォルト値を使用
	period := usecase.DefaultPeriod
	if params.Period != nil {
		period = string(*params.Period)
	}

	table, err := h.uc.GetCandles(c.Request.Context(), code, period)
	if err != nil {
		httperror.Respond(c, err)
		return
	}

	out := make([]api.CandleResponse, 0, table.Len())
	for _, x := range table.Rows {
		out = append(out, api.CandleResponse{
			Time:   x.Time.Format(time.RFC3339),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, api.CandlesResponse{
		Symbol:   table.Symbol,
		Period:   period,
		Interval: table.Interval,
		Timezone: zoneName(table.Location),
		Candles:  out,
	})
}

func zoneName(loc *time.Location) string {
	if loc == nil {
		return time.UTC.String()
	}
	return loc.String()
}
