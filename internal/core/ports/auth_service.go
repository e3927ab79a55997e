package ports

import (
	"context"
	"time"

	"github.com/lppm/portal-auth/internal/core/domain"
)

// RegisterUserInput is the generic self-registration payload.
type RegisterUserInput struct {
	Name           string `json:"name" validate:"required,min=3,max=100"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,min=8,max=100,password_bytes"`
	IdentityNumber string `json:"nidn" validate:"omitempty,max=20"`
	Faculty        string `json:"fakultas" validate:"omitempty,max=100"`
}

// RegisterDosenInput is the lecturer registration payload.
type RegisterDosenInput struct {
	Name                 string `json:"name" validate:"required,min=3,max=100"`
	BirthPlace           string `json:"tempat_lahir" validate:"required,max=100"`
	BirthDate            string `json:"tanggal_lahir" validate:"required,datetime=2006-01-02"`
	Gender               string `json:"jenis_kelamin" validate:"required,oneof=Laki-laki Perempuan"`
	Address              string `json:"alamat" validate:"omitempty,max=500"`
	Phone                string `json:"nomor_hp" validate:"required,max=20"`
	Email                string `json:"email" validate:"required,email,max=255"`
	IdentityNumber       string `json:"nidn" validate:"required,max=20"`
	Faculty              string `json:"fakultas" validate:"required,max=100"`
	StudyProgram         string `json:"program_studi" validate:"required,max=100"`
	Username             string `json:"username" validate:"required,min=3,max=30,username"`
	Password             string `json:"password" validate:"required,min=8,max=100,password_bytes"`
	PasswordConfirmation string `json:"konfirmasi_password" validate:"required,eqfield=Password"`
}

// RegisterReviewerInput is the external reviewer registration payload. It
// arrives as multipart form data together with the CV document.
type RegisterReviewerInput struct {
	Name                 string `json:"name" form:"name" validate:"required,min=3,max=100"`
	Email                string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone                string `json:"nomor_hp" form:"nomor_hp" validate:"required,max=20"`
	Institution          string `json:"instansi" form:"instansi" validate:"required,max=100"`
	Expertise            string `json:"bidang_keahlian" form:"bidang_keahlian" validate:"required,max=100"`
	ReviewExperience     string `json:"pengalaman_review" form:"pengalaman_review" validate:"required,max=1000"`
	Username             string `json:"username" form:"username" validate:"required,min=3,max=30,username"`
	Password             string `json:"password" form:"password" validate:"required,min=8,max=100,password_bytes"`
	PasswordConfirmation string `json:"konfirmasi_password" form:"konfirmasi_password" validate:"required,eqfield=Password"`

	Document *domain.Document `json:"-" form:"-" validate:"-"`
}

// LoginInput accepts an identifier (email or NIDN). Email is the generic-path
// field and is looked up against the email column only.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"omitempty,max=255"`
	Email      string `json:"email" validate:"omitempty,max=255"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService keeps the three registration variants separate: the generic
// path activates accounts immediately, the others wait for admin approval.
type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	RegisterDosen(ctx context.Context, in RegisterDosenInput) (*domain.User, error)
	RegisterReviewer(ctx context.Context, in RegisterReviewerInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}
