package middleware

import (
	"errors"
	"net/http"
	"upline/domain"
	"upline/pkg/logger"

	jsonres "upline/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler maps the domain error taxonomy to HTTP statuses. Internal
// detail stays in the logs; the response body only carries the generic
// message for anything unexpected.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		_ = c.JSON(httpErr.Code, jsonres.Error("", msg, nil))
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		_ = c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", err.Error(), nil))
	case errors.Is(err, domain.ErrBadRequest):
		_ = c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	case errors.Is(err, domain.ErrNotFound):
		_ = c.JSON(http.StatusNotFound, jsonres.Error("NOT_FOUND", err.Error(), nil))
	default:
		logger.Error("Unhandled error", err)
		_ = c.JSON(http.StatusInternalServerError, jsonres.Error("INTERNAL_ERROR", "Internal server error", nil))
	}
}
