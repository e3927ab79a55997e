package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/metrics"
)

// ClaimsKey is the echo context key holding *domain.Claims.
const ClaimsKey = "auth.claims"

const bearerPrefix = "Bearer "

// Auth verifies the bearer token and stores its claims in the context. It
// never touches the datastore: role and status changes apply once the
// token expires.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header is missing")
			}

			token, ok := strings.CutPrefix(header, bearerPrefix)
			if !ok || token == "" || token != strings.TrimSpace(token) {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return domain.ErrInvalidToken
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// Claims returns the verified claims stored by Auth, if any.
func Claims(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}
