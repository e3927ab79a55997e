package handler

import (
	"github.com/lppm/portal-auth/internal/pkg/validation"
)

// echoValidator lets handlers call c.Validate(req) with the portal's rules.
// Failures come back as *domain.ValidationError.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
