// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	checkTimeout = 2 * time.Second
)

// Check は依存コンポーネント1つの疎通確認です。nil を返せば正常。
type Check func(ctx context.Context) error

// HealthHandler は /healthz エンドポイントを処理します。
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler は登録されたチェックを実行するハンドラーを作成します。
// checks が空の場合は常に "ok" を返します。
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// いずれかのチェックが失敗した場合は 503 と "degraded" を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	resp, code := h.run(c.Request.Context())
	if c.Request.Method == http.MethodHead {
		c.Status(code)
		return
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) run(ctx context.Context) (api.HealthResponse, int) {
	resp := api.HealthResponse{Status: StatusOK}
	if len(h.checks) == 0 {
		return resp, http.StatusOK
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	code := http.StatusOK
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := h.checks[name](cctx)
		cancel()
		if err != nil {
			results[name] = err.Error()
			resp.Status = StatusDegraded
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = StatusOK
	}
	resp.Checks = &results
	return resp, code
}
