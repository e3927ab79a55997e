package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/api/handler"
	"github.com/lppm/portal-auth/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "errors": {...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

var domainErrors = []struct {
	err  error
	code int
}{
	{domain.ErrDocumentRequired, http.StatusBadRequest},
	{domain.ErrInvalidUserID, http.StatusBadRequest},
	{domain.ErrRoleNotFound, http.StatusBadRequest},
	{domain.ErrWrongPassword, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrAccountInactive, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrUsernameTaken, http.StatusConflict},
	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrIdentityNumberTaken, http.StatusConflict},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, handler.ErrorResponse{Error: "validation failed", Errors: verr.Fields}
	}

	// Known domain errors → deterministic HTTP codes. The sentinel's own
	// message is returned so wrapping context never reaches the client.
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.code, handler.ErrorResponse{Error: m.err.Error()}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}
