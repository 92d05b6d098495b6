package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// mockSymbolUsecase はSymbolUsecaseのモック実装です。
type mockSymbolUsecase struct {
	ListActiveSymbolsFunc func(ctx context.Context) ([]entity.Symbol, error)
}

func (m *mockSymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return m.ListActiveSymbolsFunc(ctx)
}

func watchlist(symbols ...entity.Symbol) func(context.Context) ([]entity.Symbol, error) {
	return func(context.Context) ([]entity.Symbol, error) { return symbols, nil }
}

func TestSymbolHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		list           func(ctx context.Context) ([]entity.Symbol, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: watchlist order is kept",
			list: watchlist(
				entity.Symbol{ID: 3, Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 1},
				entity.Symbol{ID: 1, Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", IsActive: true, SortKey: 2},
			),
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"TSLA","name":"Tesla, Inc."},{"code":"AAPL","name":"Apple Inc."}]`,
		},
		{
			// ID・Market・SortKey などの内部フィールドは公開しない
			name:           "success: only code and name are exposed",
			list:           watchlist(entity.Symbol{ID: 999, Code: "BRK-B", Name: "Berkshire Hathaway", Market: "NYSE", SortKey: 100}),
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"BRK-B","name":"Berkshire Hathaway"}]`,
		},
		{
			name:           "success: nil list is an empty array",
			list:           watchlist(),
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: not found maps to 404",
			list: func(context.Context) ([]entity.Symbol, error) {
				return nil, fmt.Errorf("%w: watchlist", domain.ErrNoDataFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"no data found: watchlist"}`,
		},
		{
			name: "error: database failure is hidden",
			list: func(context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("pq: connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.GET("/symbols", NewSymbolHandler(&mockSymbolUsecase{ListActiveSymbolsFunc: tt.list}).List)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/symbols", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.NotContains(t, w.Body.String(), "sort_key")
		})
	}
}
