package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/metrics"
)

const maxKeyPeekBytes = 64 << 10

// RateLimitConfig configures one fixed-window limiter.
type RateLimitConfig struct {
	Scope  string
	Limit  int
	Window time.Duration
	// KeyFunc derives the counter key. Defaults to the client IP.
	KeyFunc func(c echo.Context) string
	// SkipSuccessful takes a hit back when the handler responds below 400.
	SkipSuccessful bool
}

// RateLimit rejects requests over the configured limit with 429. When the
// limiter itself fails the request is let through and a warning logged.
func RateLimit(limiter ports.RateLimiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c echo.Context) string { return c.RealIP() }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := keyFunc(c)

			decision, err := limiter.Hit(ctx, cfg.Scope, key, cfg.Limit, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("RateLimit-Remaining", strconv.FormatInt(max(int64(cfg.Limit)-decision.Count, 0), 10))
			h.Set("RateLimit-Reset", strconv.Itoa(int(decision.RetryAfter.Seconds())))

			if !decision.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(cfg.Scope).Inc()
				h.Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())))
				return domain.ErrRateLimited
			}

			err = next(c)
			if cfg.SkipSuccessful && err == nil && c.Response().Status < http.StatusBadRequest {
				if uerr := limiter.Undo(ctx, cfg.Scope, key); uerr != nil {
					log.Warn().Err(uerr).Str("scope", cfg.Scope).Msg("rate limiter undo failed")
				}
			}
			return err
		}
	}
}

// LoginKey keys login attempts by the submitted identifier (or email),
// falling back to the client IP. The request body is restored for the handler.
func LoginKey(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return c.RealIP()
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxKeyPeekBytes))
	if err != nil {
		return c.RealIP()
	}
	req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), req.Body))

	var payload struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return c.RealIP()
	}
	if id := strings.ToLower(strings.TrimSpace(payload.Identifier)); id != "" {
		return id
	}
	if email := strings.ToLower(strings.TrimSpace(payload.Email)); email != "" {
		return email
	}
	return c.RealIP()
}
