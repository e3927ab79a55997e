package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/validation"
)

// UserService implements admin user management.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

// List returns users newest first. An unknown role filter matches nobody.
func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) ([]domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	filter := domain.ListUsersFilter{
		Status: domain.UserStatus(in.Status),
		Search: strings.TrimSpace(in.Search),
	}
	if in.Role != "" {
		role, err := domain.ParseRole(in.Role)
		if err != nil {
			return []domain.User{}, nil
		}
		filter.Role = role
	}

	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	return s.users.FindByID(ctx, id)
}

// UpdateRole moves a user to another role. The new role takes effect on
// the user's next login.
func (s *UserService) UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	name, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	record, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateRole(ctx, id, record.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Str("role", name.String()).Msg("user role changed")
	return user, nil
}

// UpdateStatus activates or deactivates an account. Deactivation is the
// portal's soft delete.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidUserID
	}
	user, err := s.users.UpdateStatus(ctx, id, active)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Int64("user_id", id).Msg("update user status failed")
		}
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Bool("is_active", active).Msg("user status changed")
	return user, nil
}
