package ports

import (
	"context"

	"github.com/lppm/portal-auth/internal/core/domain"
)

type ListUsersInput struct {
	Status string `query:"status" validate:"omitempty,oneof=pending active"`
	Role   string `query:"role" validate:"omitempty,max=50"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

// UserService backs the admin user-management endpoints.
type UserService interface {
	List(ctx context.Context, in ListUsersInput) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error)
}
