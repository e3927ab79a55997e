package ports

import (
	"context"

	"github.com/lppm/portal-auth/internal/core/domain"
)

// UserRepository defines persistence for portal accounts. Lookups that find
// nothing return domain.ErrUserNotFound; unique-constraint violations on
// create or update surface as the matching *Taken error.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier matches either the email or the NIDN/NIP column.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// IdentityNumberExists ignores the row with excludeID (0 excludes nothing).
	IdentityNumberExists(ctx context.Context, identityNumber string, excludeID int64) (bool, error)

	List(ctx context.Context, filter domain.ListUsersFilter) ([]domain.User, error)
	UpdateRole(ctx context.Context, id, roleID int64) (*domain.User, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
}

// RoleRepository reads the seeded role records.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when no record exists.
	FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
}
