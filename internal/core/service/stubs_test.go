package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lppm/portal-auth/internal/core/domain"
)

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	nextID  int64
	creates int
	// createErr, when set, is returned by Create instead of inserting.
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		switch {
		case user.Username != "" && u.Username == user.Username:
			return nil, domain.ErrUsernameTaken
		case u.Email == user.Email:
			return nil, domain.ErrEmailTaken
		case user.IdentityNumber != "" && u.IdentityNumber == user.IdentityNumber:
			return nil, domain.ErrIdentityNumberTaken
		}
	}

	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	copy.CreatedAt = time.Now().UTC()
	copy.UpdatedAt = copy.CreatedAt
	r.users[copy.ID] = copy
	r.creates++
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == identifier || (u.IdentityNumber != "" && u.IdentityNumber == identifier) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	return r.exists(func(u *domain.User) bool { return u.Username == username }), nil
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	return r.exists(func(u *domain.User) bool { return u.Email == email }), nil
}

func (r *stubUserRepo) IdentityNumberExists(_ context.Context, nidn string, excludeID int64) (bool, error) {
	return r.exists(func(u *domain.User) bool { return u.ID != excludeID && u.IdentityNumber == nidn }), nil
}

func (r *stubUserRepo) exists(match func(*domain.User) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) List(_ context.Context, f domain.ListUsersFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.User{}
	for _, u := range r.users {
		if f.Status == domain.UserStatusActive && !u.IsActive {
			continue
		}
		if f.Status == domain.UserStatusPending && u.IsActive {
			continue
		}
		if f.Role != "" && u.Role.Name != f.Role {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
				continue
			}
		}
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, roleID int64) (*domain.User, error) {
	return r.update(id, func(u *domain.User) {
		u.Role = domain.RoleRecord{ID: roleID, Name: roleNameByID[roleID]}
	})
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id int64, active bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.IsActive = active })
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	return r.update(id, func(u *domain.User) {
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.IdentityNumber != nil {
			u.IdentityNumber = *p.IdentityNumber
		}
		if p.Faculty != nil {
			u.Faculty = *p.Faculty
		}
	})
}

func (r *stubUserRepo) update(id int64, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

var seededRoles = []domain.RoleRecord{
	{ID: 1, Name: domain.RoleAdminLPPM},
	{ID: 2, Name: domain.RoleStaffLPPM},
	{ID: 3, Name: domain.RoleDosen},
	{ID: 4, Name: domain.RoleReviewer},
	{ID: 5, Name: domain.RoleExternalReviewer},
	{ID: 6, Name: domain.RoleExternalParty},
}

var roleNameByID = func() map[int64]domain.Role {
	m := make(map[int64]domain.Role, len(seededRoles))
	for _, r := range seededRoles {
		m[r.ID] = r.Name
	}
	return m
}()

type stubRoleRepo struct {
	missing map[domain.Role]bool
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.Role) (*domain.RoleRecord, error) {
	if r.missing[name] {
		return nil, domain.ErrRoleNotFound
	}
	for _, rec := range seededRoles {
		if rec.Name == name {
			rec := rec
			return &rec, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

// plainHasher keeps tests fast; bcrypt itself is covered in the security package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return domain.ErrWrongPassword
	}
	return nil
}

type stubDocumentStore struct {
	saved   []domain.DocumentRef
	saveErr error
}

func (s *stubDocumentStore) Save(_ context.Context, doc *domain.Document) (domain.DocumentRef, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if _, err := io.ReadAll(doc.Content); err != nil {
		return "", err
	}
	ref := domain.DocumentRef(fmt.Sprintf("cv/%d-%s", len(s.saved)+1, doc.Filename))
	s.saved = append(s.saved, ref)
	return ref, nil
}

func (s *stubDocumentStore) Delete(_ context.Context, _ domain.DocumentRef) error { return nil }

type stubDiscarder struct {
	discarded []domain.DocumentRef
}

func (d *stubDiscarder) Discard(ref domain.DocumentRef) {
	d.discarded = append(d.discarded, ref)
}
