package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found: please register first")
	ErrWrongPassword       = errors.New("wrong password")
	ErrAccountInactive     = errors.New("account has not been verified by LPPM admin")
	ErrPasswordHashMissing = errors.New("user has no password hash")

	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already taken")
	ErrIdentityNumberTaken = errors.New("NIDN already registered")

	ErrRoleNotConfigured    = errors.New("role record is not configured")
	ErrRoleNotFound         = errors.New("role not found")
	ErrDocumentRequired     = errors.New("CV document is required")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrSigningSecretMissing = errors.New("token signing secret is not configured")

	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you do not have permission to access this resource")
	ErrRateLimited     = errors.New("too many requests, please try again later")
)

// ValidationError collects field-level input problems keyed by the JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field problems were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
