package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/pkg/metrics"
	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/validation"
)

// RememberMeTTL is the session lifetime granted when the caller asks to be remembered.
const RememberMeTTL = 7 * 24 * time.Hour

// AuthService implements registration and login.
type AuthService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenManager
	documents ports.DocumentStore
	discarder ports.DocumentDiscarder
	tokenTTL  time.Duration
	log       zerolog.Logger
}

type AuthServiceDeps struct {
	Users     ports.UserRepository
	Roles     ports.RoleRepository
	Hasher    ports.PasswordHasher
	Tokens    ports.TokenManager
	Documents ports.DocumentStore
	Discarder ports.DocumentDiscarder
	TokenTTL  time.Duration
}

func NewAuthService(deps AuthServiceDeps, log zerolog.Logger) *AuthService {
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:     deps.Users,
		roles:     deps.Roles,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		documents: deps.Documents,
		discarder: deps.Discarder,
		tokenTTL:  ttl,
		log:       log,
	}
}

// RegisterUser is the generic self-registration path. Accounts created here
// are active immediately and get the REVIEWER role.
func (s *AuthService) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	const variant = "generic"

	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, s.registrationFailed(variant, err)
	}

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, s.registrationFailed(variant, err)
	}
	if taken {
		return nil, s.registrationFailed(variant, domain.ErrEmailTaken)
	}

	user := &domain.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		IdentityNumber: strings.TrimSpace(in.IdentityNumber),
		Faculty:        strings.TrimSpace(in.Faculty),
		IsActive:       true,
	}
	created, err := s.create(ctx, user, domain.RoleReviewer, in.Password)
	if err != nil {
		return nil, s.registrationFailed(variant, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(variant, "created").Inc()
	s.log.Info().Int64("user_id", created.ID).Str("variant", variant).Msg("user registered")
	return created, nil
}

// RegisterDosen registers a lecturer. The account stays inactive until an
// LPPM admin approves it.
func (s *AuthService) RegisterDosen(ctx context.Context, in ports.RegisterDosenInput) (*domain.User, error) {
	const variant = "dosen"

	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.IdentityNumber = strings.TrimSpace(in.IdentityNumber)
	if err := validation.Struct(in); err != nil {
		return nil, s.registrationFailed(variant, err)
	}

	birthDate, err := time.Parse(time.DateOnly, in.BirthDate)
	if err != nil {
		ve := domain.NewValidationError()
		ve.Add("tanggal_lahir", "must be a date in YYYY-MM-DD format")
		return nil, s.registrationFailed(variant, ve)
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, in.IdentityNumber); err != nil {
		return nil, s.registrationFailed(variant, err)
	}

	user := &domain.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		Username:       in.Username,
		IdentityNumber: in.IdentityNumber,
		Faculty:        strings.TrimSpace(in.Faculty),
		StudyProgram:   strings.TrimSpace(in.StudyProgram),
		BirthPlace:     strings.TrimSpace(in.BirthPlace),
		BirthDate:      &birthDate,
		Gender:         domain.Gender(in.Gender),
		Address:        strings.TrimSpace(in.Address),
		Phone:          strings.TrimSpace(in.Phone),
		IsActive:       false,
	}
	created, err := s.create(ctx, user, domain.RoleDosen, in.Password)
	if err != nil {
		return nil, s.registrationFailed(variant, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(variant, "created").Inc()
	s.log.Info().Int64("user_id", created.ID).Str("variant", variant).Msg("user registered, awaiting approval")
	return created, nil
}

// RegisterReviewer registers an external reviewer together with their CV.
// The CV is stored before the input is checked; if registration does not go
// through, the stored file is handed to the discarder.
func (s *AuthService) RegisterReviewer(ctx context.Context, in ports.RegisterReviewerInput) (*domain.User, error) {
	const variant = "reviewer"

	if in.Document == nil || in.Document.Content == nil {
		return nil, s.registrationFailed(variant, domain.ErrDocumentRequired)
	}

	ref, err := s.documents.Save(ctx, in.Document)
	if err != nil {
		return nil, s.registrationFailed(variant, fmt.Errorf("store CV: %w", err))
	}

	created, err := s.registerReviewer(ctx, in, ref)
	if err != nil {
		s.discarder.Discard(ref)
		return nil, s.registrationFailed(variant, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(variant, "created").Inc()
	s.log.Info().Int64("user_id", created.ID).Str("variant", variant).Msg("user registered, awaiting approval")
	return created, nil
}

func (s *AuthService) registerReviewer(ctx context.Context, in ports.RegisterReviewerInput, ref domain.DocumentRef) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, in.Username, in.Email, ""); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:             strings.TrimSpace(in.Name),
		Email:            in.Email,
		Username:         in.Username,
		Phone:            strings.TrimSpace(in.Phone),
		Institution:      strings.TrimSpace(in.Institution),
		Expertise:        strings.TrimSpace(in.Expertise),
		ReviewExperience: strings.TrimSpace(in.ReviewExperience),
		CVPath:           string(ref),
		IsActive:         false,
	}
	return s.create(ctx, user, domain.RoleExternalReviewer, in.Password)
}

// Login authenticates by email or NIDN. The active flag is only consulted
// after the password has been proven.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	in.Email = normalizeEmail(in.Email)

	if err := validation.Struct(in); err != nil {
		return nil, s.loginFailed("invalid", err)
	}
	if in.Identifier == "" && in.Email == "" {
		ve := domain.NewValidationError()
		ve.Add("identifier", "is required")
		return nil, s.loginFailed("invalid", ve)
	}

	var (
		user *domain.User
		err  error
	)
	if in.Identifier != "" {
		user, err = s.users.FindByIdentifier(ctx, in.Identifier)
	} else {
		user, err = s.users.FindByEmail(ctx, in.Email)
	}
	if err != nil {
		return nil, s.loginFailed("not_found", err)
	}

	if user.PasswordHash == "" {
		return nil, s.loginFailed("error", fmt.Errorf("user %d: %w", user.ID, domain.ErrPasswordHashMissing))
	}
	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, s.loginFailed("wrong_password", err)
	}
	if !user.IsActive {
		return nil, s.loginFailed("inactive", domain.ErrAccountInactive)
	}

	ttl := s.tokenTTL
	if in.RememberMe {
		ttl = RememberMeTTL
	}
	token, exp, err := s.tokens.Issue(user.ID, user.Role.Name, ttl)
	if err != nil {
		return nil, s.loginFailed("error", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role.Name.String()).Bool("remember_me", in.RememberMe).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// ensureUnique checks username, then email, then NIDN so that the first
// collision in that order is the one reported. Empty values are skipped.
func (s *AuthService) ensureUnique(ctx context.Context, username, email, identityNumber string) error {
	if username != "" {
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}

	if identityNumber != "" {
		taken, err := s.users.IdentityNumberExists(ctx, identityNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrIdentityNumberTaken
		}
	}
	return nil
}

func (s *AuthService) create(ctx context.Context, user *domain.User, role domain.Role, password string) (*domain.User, error) {
	record, err := s.roles.FindByName(ctx, role)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, fmt.Errorf("%s: %w", role, domain.ErrRoleNotConfigured)
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	user.Role = *record
	return s.users.Create(ctx, user)
}

func (s *AuthService) registrationFailed(variant string, err error) error {
	metrics.RegistrationsTotal.WithLabelValues(variant, outcome(err)).Inc()
	return err
}

func (s *AuthService) loginFailed(reason string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		reason = "not_found"
	}
	metrics.LoginsTotal.WithLabelValues(reason).Inc()
	return err
}

func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, domain.ErrDocumentRequired):
		return "invalid"
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrIdentityNumberTaken):
		return "conflict"
	default:
		return "error"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
