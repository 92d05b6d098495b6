// Package httperror maps domain errors to HTTP responses.
package httperror

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/candles/domain"
)

// Status returns the HTTP status for err.
//
//	ErrNoDataFound    -> 404
//	ErrMalformedInput -> 400
//	それ以外           -> 500
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoDataFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as an api.ErrorResponse.
// 500系の詳細はログにのみ出力し、クライアントには返しません。
func Respond(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = http.StatusText(status)
	}
	c.JSON(status, api.ErrorResponse{Error: msg})
}

// BadRequest writes a 400 response for a parameter that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
}
