package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/api/middleware"
	"github.com/lppm/portal-auth/internal/core/domain"
)

// callerClaims returns the verified claims placed by the Auth middleware.
// Their absence means the route was wired without Auth.
func callerClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// pathUserID parses the :id route parameter.
func pathUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidUserID
	}
	return id, nil
}
