package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, name, email string, role domain.Role, active bool) *domain.User {
	t.Helper()
	var rec domain.RoleRecord
	for _, r := range seededRoles {
		if r.Name == role {
			rec = r
		}
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Name: name, Email: email, PasswordHash: "hashed:rahasia123", Role: rec, IsActive: active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_List_Filters(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubRoleRepo{}, zerolog.Nop())

	seedUser(t, repo, "Budi Santoso", "budi@kampus.ac.id", domain.RoleDosen, false)
	seedUser(t, repo, "Ani Lestari", "ani@kampus.ac.id", domain.RoleDosen, true)
	seedUser(t, repo, "Siti Rahma", "siti@institut.id", domain.RoleExternalReviewer, false)

	pending, err := svc.List(context.Background(), ports.ListUsersInput{Status: "pending"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 || pending[0].Name != "Siti Rahma" {
		t.Fatalf("expected two pending users newest first, got %+v", pending)
	}

	dosen, err := svc.List(context.Background(), ports.ListUsersInput{Role: "dosen", Search: "ANI"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dosen) != 1 || dosen[0].Email != "ani@kampus.ac.id" {
		t.Fatalf("unexpected result: %+v", dosen)
	}

	unknown, err := svc.List(context.Background(), ports.ListUsersInput{Role: "superuser"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unknown) != 0 {
		t.Fatalf("unknown role should match nobody, got %d", len(unknown))
	}
}

func TestUserService_List_InvalidStatus(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), &stubRoleRepo{}, zerolog.Nop())

	_, err := svc.List(context.Background(), ports.ListUsersInput{Status: "deleted"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields["status"]) == 0 {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubRoleRepo{}, zerolog.Nop())
	u := seedUser(t, repo, "Budi Santoso", "budi@kampus.ac.id", domain.RoleDosen, true)

	got, err := svc.Get(context.Background(), u.ID)
	if err != nil || got.Email != u.Email {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	repo := newStubUserRepo()
	roles := &stubRoleRepo{}
	svc := NewUserService(repo, roles, zerolog.Nop())
	u := seedUser(t, repo, "Siti Rahma", "siti@institut.id", domain.RoleExternalReviewer, true)

	updated, err := svc.UpdateRole(context.Background(), u.ID, "reviewer")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role.Name != domain.RoleReviewer {
		t.Fatalf("expected REVIEWER, got %s", updated.Role.Name)
	}

	if _, err := svc.UpdateRole(context.Background(), u.ID, "SUPERUSER"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}

	roles.missing = map[domain.Role]bool{domain.RoleStaffLPPM: true}
	if _, err := svc.UpdateRole(context.Background(), u.ID, "STAFF_LPPM"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound for missing record, got %v", err)
	}

	if _, err := svc.UpdateRole(context.Background(), 999, "DOSEN"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateStatus(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubRoleRepo{}, zerolog.Nop())
	u := seedUser(t, repo, "Budi Santoso", "budi@kampus.ac.id", domain.RoleDosen, false)

	updated, err := svc.UpdateStatus(context.Background(), u.ID, true)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !updated.IsActive {
		t.Fatalf("expected active user")
	}
	if _, err := svc.UpdateStatus(context.Background(), 999, true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
