package ports

import (
	"context"

	"github.com/lppm/portal-auth/internal/core/domain"
)

type UpdateProfileInput struct {
	Name           *string `json:"name" validate:"omitempty,min=3,max=100"`
	IdentityNumber *string `json:"nidn" validate:"omitempty,min=1,max=20"`
	Faculty        *string `json:"fakultas" validate:"omitempty,min=1,max=100"`
}

// ProfileService resolves the caller's own record from the token subject.
type ProfileService interface {
	Me(ctx context.Context, userID int64) (*domain.User, error)
	GetDosenProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateDosenProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error)
}
