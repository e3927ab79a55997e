package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lppm/portal-auth/internal/api/handler"
	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/core/service"
	"github.com/lppm/portal-auth/internal/infrastructure/security"
	"github.com/lppm/portal-auth/internal/pkg/config"
)

// memoryUsers is an in-memory UserRepository with the store's uniqueness rules.
type memoryUsers struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int64]domain.User), nextID: 1}
}

func (r *memoryUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	u := *user
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return &u, nil
}

func (r *memoryUsers) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memoryUsers) FindByIdentifier(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool {
		return u.Email == strings.ToLower(id) || (u.IdentityNumber != "" && u.IdentityNumber == id)
	})
}

func (r *memoryUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.find(func(u domain.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *memoryUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memoryUsers) IdentityNumberExists(_ context.Context, nidn string, excludeID int64) (bool, error) {
	_, err := r.find(func(u domain.User) bool { return u.ID != excludeID && u.IdentityNumber == nidn })
	return err == nil, nil
}

func (r *memoryUsers) List(_ context.Context, f domain.ListUsersFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if f.Role == "" || u.Role.Name == f.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryUsers) update(id int64, fn func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(&u)
	r.users[id] = u
	return &u, nil
}

func (r *memoryUsers) UpdateRole(_ context.Context, id, roleID int64) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Role = roleRecords[roleID-1] })
}

func (r *memoryUsers) UpdateStatus(_ context.Context, id int64, active bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.IsActive = active })
}

func (r *memoryUsers) UpdateProfile(_ context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	return r.update(id, func(u *domain.User) {
		if p.Faculty != nil {
			u.Faculty = *p.Faculty
		}
	})
}

var roleRecords = []domain.RoleRecord{
	{ID: 1, Name: domain.RoleAdminLPPM},
	{ID: 2, Name: domain.RoleStaffLPPM},
	{ID: 3, Name: domain.RoleDosen},
	{ID: 4, Name: domain.RoleReviewer},
	{ID: 5, Name: domain.RoleExternalReviewer},
	{ID: 6, Name: domain.RoleExternalParty},
}

type memoryRoles struct{}

func (memoryRoles) FindByName(_ context.Context, name domain.Role) (*domain.RoleRecord, error) {
	for _, rec := range roleRecords {
		if rec.Name == name {
			return &rec, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (l *memoryLimiter) Hit(_ context.Context, scope, key string, limit int, window time.Duration) (ports.RateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[scope+":"+key]++
	n := l.counts[scope+":"+key]
	return ports.RateDecision{Allowed: n <= int64(limit), Count: n, Limit: limit, RetryAfter: window}, nil
}

func (l *memoryLimiter) Undo(_ context.Context, scope, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[scope+":"+key] > 0 {
		l.counts[scope+":"+key]--
	}
	return nil
}

type noopDiscarder struct{}

func (noopDiscarder) Discard(domain.DocumentRef) {}

type portal struct {
	e     *echo.Echo
	users *memoryUsers
}

func newPortal(t *testing.T) *portal {
	t.Helper()

	log := zerolog.Nop()
	users := newMemoryUsers()
	hasher := security.NewBcryptHasher(4)
	tokens := security.NewTokenManager("scenario-secret")

	hash, err := hasher.Hash("admin-password")
	require.NoError(t, err)
	_, err = users.Create(context.Background(), &domain.User{
		Name:         "Admin LPPM",
		Email:        "admin@lppm.ac.id",
		PasswordHash: hash,
		Role:         roleRecords[0],
		IsActive:     true,
	})
	require.NoError(t, err)

	cfg := &config.Config{
		HTTP:      config.HTTPConfig{CORSAllowOrigins: []string{"http://localhost:5173"}, OAuthGoogleURL: "https://oauth.example.com"},
		RateLimit: config.RateLimitConfig{RegisterLimit: 50, RegisterWindow: time.Hour, LoginLimit: 5, LoginWindow: 15 * time.Minute},
		Upload:    config.UploadConfig{CVMaxBytes: 5 << 20},
	}

	registry := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Config: cfg,
		Log:    log,
		AuthService: service.NewAuthService(service.AuthServiceDeps{
			Users:     users,
			Roles:     memoryRoles{},
			Hasher:    hasher,
			Tokens:    tokens,
			Discarder: noopDiscarder{},
			TokenTTL:  24 * time.Hour,
		}, log),
		UserService:    service.NewUserService(users, memoryRoles{}, log),
		ProfileService: service.NewProfileService(users, log),
		Tokens:         tokens,
		Limiter:        &memoryLimiter{counts: make(map[string]int64)},
		Health:         map[string]handler.Pinger{},
		Registerer:     registry,
		Gatherer:       registry,
	})

	return &portal{e: e, users: users}
}

func (p *portal) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	p.e.ServeHTTP(rec, req)
	return rec
}

type loginBody struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		ID    int64 `json:"id"`
		Roles struct {
			Roles string `json:"roles"`
		} `json:"roles"`
	} `json:"user"`
}

func (p *portal) login(t *testing.T, body string) (int, loginBody) {
	t.Helper()
	rec := p.do(http.MethodPost, "/api/auth/login", "", body)
	var out loginBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

const dosenPayload = `{"name":"Budi Santoso","tempat_lahir":"Bandung","tanggal_lahir":"1985-04-12","jenis_kelamin":"Laki-laki","nomor_hp":"081234","email":"%s","nidn":"0011223344","fakultas":"Teknik","program_studi":"Informatika","username":"%s","password":"rahasia123","konfirmasi_password":"rahasia123"}`

func dosenBody(email, username string) string {
	return strings.Replace(strings.Replace(dosenPayload, "%s", email, 1), "%s", username, 1)
}

func TestRouter_DosenLifecycle(t *testing.T) {
	p := newPortal(t)

	rec := p.do(http.MethodPost, "/api/auth/register/dosen", "", dosenBody("budi@univ.ac.id", "budi_s"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"is_active":false`)

	// same NIDN, different email and username
	rec = p.do(http.MethodPost, "/api/auth/register/dosen", "", dosenBody("other@univ.ac.id", "other_s"))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "NIDN already registered")

	code, _ := p.login(t, `{"identifier":"0011223344","password":"rahasia123"}`)
	require.Equal(t, http.StatusForbidden, code, "pending accounts cannot log in")

	code, admin := p.login(t, `{"email":"admin@lppm.ac.id","password":"admin-password"}`)
	require.Equal(t, http.StatusOK, code)

	rec = p.do(http.MethodPatch, "/api/users/2/status", admin.Token, `{"is_active":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	before := time.Now()
	code, dosen := p.login(t, `{"identifier":"0011223344","password":"rahasia123","remember_me":true}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "DOSEN", dosen.User.Roles.Roles)
	require.WithinDuration(t, before.Add(service.RememberMeTTL), dosen.ExpiresAt, time.Minute)

	rec = p.do(http.MethodGet, "/api/dosen/profile", dosen.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = p.do(http.MethodPatch, "/api/dosen/profile", dosen.Token, `{"fakultas":"MIPA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"fakultas":"MIPA"`)

	rec = p.do(http.MethodGet, "/api/users", dosen.Token, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = p.do(http.MethodPatch, "/api/users/2/status", admin.Token, `{"is_active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	code, _ = p.login(t, `{"identifier":"0011223344","password":"rahasia123"}`)
	require.Equal(t, http.StatusForbidden, code, "deactivated accounts cannot log in")
}

func TestRouter_OverlongPasswordIsBadRequest(t *testing.T) {
	p := newPortal(t)
	pw := strings.Repeat("a", 80)

	rec := p.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Andi Wijaya","email":"andi@kampus.ac.id","password":"`+pw+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"password":["must be at most 72 bytes"]`)

	body := strings.ReplaceAll(dosenBody("budi@univ.ac.id", "budi_s"), "rahasia123", pw)
	rec = p.do(http.MethodPost, "/api/auth/register/dosen", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "must be at most 72 bytes")
}

func TestRouter_AuthGates(t *testing.T) {
	p := newPortal(t)

	rec := p.do(http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "authorization header is missing")

	rec = p.do(http.MethodGet, "/api/auth/me", "not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid or expired token")

	code, admin := p.login(t, `{"email":"admin@lppm.ac.id","password":"admin-password"}`)
	require.Equal(t, http.StatusOK, code)

	rec = p.do(http.MethodGet, "/api/auth/me", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"roles":"ADMIN_LPPM"`)

	rec = p.do(http.MethodGet, "/api/dosen/profile", admin.Token, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = p.do(http.MethodPatch, "/api/users/1/role", admin.Token, `{"role":"SUPERUSER"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "role not found")

	rec = p.do(http.MethodGet, "/api/users/999", admin.Token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_LoginFailuresAreRateLimited(t *testing.T) {
	p := newPortal(t)

	for i := 0; i < 5; i++ {
		code, _ := p.login(t, `{"email":"admin@lppm.ac.id","password":"wrong-password"}`)
		require.Equal(t, http.StatusUnauthorized, code, "attempt %d", i+1)
	}

	rec := p.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@lppm.ac.id","password":"admin-password"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRouter_SuccessfulLoginsAreNotCounted(t *testing.T) {
	p := newPortal(t)

	for i := 0; i < 8; i++ {
		code, _ := p.login(t, `{"email":"admin@lppm.ac.id","password":"admin-password"}`)
		require.Equal(t, http.StatusOK, code, "attempt %d", i+1)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	p := newPortal(t)

	rec := p.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = p.do(http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = p.do(http.MethodGet, "/api/auth/oauth/google", "", "")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = p.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "requests_total")
}
