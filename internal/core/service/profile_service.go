package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/validation"
)

// ProfileService serves the caller's own record. The user id always comes
// from verified token claims, never from request input.
type ProfileService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, log: log}
}

func (s *ProfileService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *ProfileService) GetDosenProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateDosenProfile changes name, NIDN and faculty only.
func (s *ProfileService) UpdateDosenProfile(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error) {
	in.Name = trimmed(in.Name)
	in.IdentityNumber = trimmed(in.IdentityNumber)
	in.Faculty = trimmed(in.Faculty)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	update := domain.ProfileUpdate{
		Name:           in.Name,
		IdentityNumber: in.IdentityNumber,
		Faculty:        in.Faculty,
	}

	if update.IdentityNumber != nil {
		taken, err := s.users.IdentityNumberExists(ctx, *update.IdentityNumber, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrIdentityNumberTaken
		}
	}

	if update.Name == nil && update.IdentityNumber == nil && update.Faculty == nil {
		return s.users.FindByID(ctx, userID)
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", userID).Msg("dosen profile updated")
	return user, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
