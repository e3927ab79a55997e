package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lppm/portal-auth/internal/core/domain"
)

const queryTimeout = 5 * time.Second

const userColumns = `u.id, u.name, u.email, u.username, u.password, u.nidn_nip, u.fakultas,
	u.program_studi, u.tempat_lahir, u.tanggal_lahir, u.jenis_kelamin, u.alamat, u.nomor_hp,
	u.instansi, u.bidang_keahlian, u.pengalaman_review, u.cv_path, u.is_active,
	u.created_at, u.updated_at, r.id, r.roles`

const selectUsers = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id`

// returningUser wraps a write statement that ends in RETURNING * so the
// caller gets the joined row in one round trip.
func returningUser(write string) string {
	return `WITH w AS (` + write + `) SELECT ` + userColumns + ` FROM w u JOIN roles r ON r.id = u.role_id`
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var gender *string
	if user.Gender != "" {
		g := string(user.Gender)
		gender = &g
	}

	row := r.pool.QueryRow(ctx, returningUser(`
		INSERT INTO users (name, email, username, password, nidn_nip, fakultas, program_studi,
			tempat_lahir, tanggal_lahir, jenis_kelamin, alamat, nomor_hp, instansi,
			bidang_keahlian, pengalaman_review, cv_path, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING *`),
		user.Name, user.Email, nullable(user.Username), nullable(user.PasswordHash),
		nullable(user.IdentityNumber), nullable(user.Faculty), nullable(user.StudyProgram),
		nullable(user.BirthPlace), user.BirthDate, gender, nullable(user.Address),
		nullable(user.Phone), nullable(user.Institution), nullable(user.Expertise),
		nullable(user.ReviewExperience), nullable(user.CVPath), user.Role.ID, user.IsActive,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", mapError(err))
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, selectUsers+` WHERE u.id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUsers+` WHERE u.email = $1`, email)
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, selectUsers+` WHERE u.email = lower($1) OR u.nidn_nip = $1 LIMIT 1`, identifier)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) IdentityNumberExists(ctx context.Context, identityNumber string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE nidn_nip = $1 AND id <> $2)`, identityNumber, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var found bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("uniqueness check: %w", err)
	}
	return found, nil
}

// List returns users matching filter, newest first.
func (r *UserRepository) List(ctx context.Context, filter domain.ListUsersFilter) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		conds []string
		args  []any
	)
	switch filter.Status {
	case domain.UserStatusActive:
		conds = append(conds, "u.is_active = TRUE")
	case domain.UserStatusPending:
		conds = append(conds, "u.is_active = FALSE")
	}
	if filter.Role != "" {
		args = append(args, filter.Role.String())
		conds = append(conds, "r.roles = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(u.name ILIKE $"+n+" OR u.email ILIKE $"+n+")")
	}

	query := selectUsers
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY u.created_at DESC, u.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, roleID int64) (*domain.User, error) {
	return r.updateOne(ctx, `UPDATE users SET role_id = $2, updated_at = now() WHERE id = $1 RETURNING *`, id, roleID)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	return r.updateOne(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1 RETURNING *`, id, active)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	return r.updateOne(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			nidn_nip = COALESCE($3, nidn_nip),
			fakultas = COALESCE($4, fakultas),
			updated_at = now()
		WHERE id = $1
		RETURNING *`,
		id, update.Name, update.IdentityNumber, update.Faculty,
	)
}

func (r *UserRepository) updateOne(ctx context.Context, write string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user, err := scanUser(r.pool.QueryRow(ctx, returningUser(write), args...))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// mapError translates constraint violations into domain errors so a lost
// race against a concurrent insert reads the same as a failed pre-check.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "users_username_key":
			return domain.ErrUsernameTaken
		case "users_email_key":
			return domain.ErrEmailTaken
		case "users_nidn_nip_key":
			return domain.ErrIdentityNumberTaken
		}
	case pgerrcode.ForeignKeyViolation:
		return domain.ErrRoleNotConfigured
	}
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u                                                        domain.User
		username, password, nidn, faculty, program, birthPlace   *string
		gender, address, phone, institution, expertise, reviewXP *string
		cvPath                                                   *string
		birthDate                                                *time.Time
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &username, &password, &nidn, &faculty,
		&program, &birthPlace, &birthDate, &gender, &address, &phone,
		&institution, &expertise, &reviewXP, &cvPath, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt, &u.Role.ID, &u.Role.Name,
	)
	if err != nil {
		return nil, err
	}

	u.Username = deref(username)
	u.PasswordHash = deref(password)
	u.IdentityNumber = deref(nidn)
	u.Faculty = deref(faculty)
	u.StudyProgram = deref(program)
	u.BirthPlace = deref(birthPlace)
	u.BirthDate = birthDate
	u.Gender = domain.Gender(deref(gender))
	u.Address = deref(address)
	u.Phone = deref(phone)
	u.Institution = deref(institution)
	u.Expertise = deref(expertise)
	u.ReviewExperience = deref(reviewXP)
	u.CVPath = deref(cvPath)
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
