package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/pkg/metrics"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := append([]domain.Role(nil), allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !claims.Role.In(allowed...) {
				metrics.AccessDeniedTotal.WithLabelValues(claims.Role.String()).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
