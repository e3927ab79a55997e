package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/api/middleware"
	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
)

type stubAuthService struct {
	registerUserFn     func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error)
	registerDosenFn    func(ctx context.Context, in ports.RegisterDosenInput) (*domain.User, error)
	registerReviewerFn func(ctx context.Context, in ports.RegisterReviewerInput) (*domain.User, error)
	loginFn            func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
}

func (s *stubAuthService) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	return s.registerUserFn(ctx, in)
}

func (s *stubAuthService) RegisterDosen(ctx context.Context, in ports.RegisterDosenInput) (*domain.User, error) {
	return s.registerDosenFn(ctx, in)
}

func (s *stubAuthService) RegisterReviewer(ctx context.Context, in ports.RegisterReviewerInput) (*domain.User, error) {
	return s.registerReviewerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

type stubProfileService struct {
	meFn     func(ctx context.Context, userID int64) (*domain.User, error)
	getFn    func(ctx context.Context, userID int64) (*domain.User, error)
	updateFn func(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubProfileService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubProfileService) GetDosenProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.getFn(ctx, userID)
}

func (s *stubProfileService) UpdateDosenProfile(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

type stubUserService struct {
	listFn         func(ctx context.Context, in ports.ListUsersInput) ([]domain.User, error)
	getFn          func(ctx context.Context, id int64) (*domain.User, error)
	updateRoleFn   func(ctx context.Context, id int64, role string) (*domain.User, error)
	updateStatusFn func(ctx context.Context, id int64, active bool) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context, in ports.ListUsersInput) ([]domain.User, error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	return s.updateRoleFn(ctx, id, role)
}

func (s *stubUserService) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	return s.updateStatusFn(ctx, id, active)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, userID int64, role domain.Role) {
	c.Set(middleware.ClaimsKey, &domain.Claims{
		UserID:    userID,
		Role:      role,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func sampleUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:             7,
		Name:           "Budi Santoso",
		Email:          "budi@univ.ac.id",
		Username:       "budi_s",
		IdentityNumber: "0011223344",
		Faculty:        "Teknik",
		Role:           domain.RoleRecord{ID: 3, Name: role},
		IsActive:       true,
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
