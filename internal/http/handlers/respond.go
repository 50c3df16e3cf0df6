package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/showfinder/internal/http/middlewares"
	"github.com/geocoder89/showfinder/internal/upstream"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondUpstreamError maps a failed third-party call onto the envelope.
// notFoundCode is used when the upstream had nothing for the request.
func RespondUpstreamError(ctx *gin.Context, err error, notFoundCode, notFoundMessage string) {
	var upErr *upstream.Error
	details := gin.H{}

	if errors.As(err, &upErr) {
		details["api"] = upErr.API
		if upErr.Status != 0 {
			details["status"] = upErr.Status
		}
	}

	switch {
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, upstream.ErrNoResults):
		RespondError(ctx, http.StatusNotFound, notFoundCode, notFoundMessage, nil)
		return
	case errors.Is(err, upstream.ErrTimeout):
		slog.WarnContext(ctx.Request.Context(), "upstream timeout", "err", err)
		RespondError(ctx, http.StatusGatewayTimeout, "upstream_timeout", "Upstream service timed out", details)
		return
	}

	slog.WarnContext(ctx.Request.Context(), "upstream error", "err", err)
	RespondError(ctx, http.StatusBadGateway, "upstream_error", "Upstream service failed", details)
}
