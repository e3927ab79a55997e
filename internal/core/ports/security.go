package ports

import (
	"time"

	"github.com/lppm/portal-auth/internal/core/domain"
)

// TokenVerifier validates bearer tokens. Every failure is reported as
// domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	TokenVerifier
	Issue(userID int64, role domain.Role, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare returns domain.ErrWrongPassword on mismatch.
	Compare(hash, plain string) error
}
