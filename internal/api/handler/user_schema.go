package handler

import "time"

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// dataResponse is the standard success envelope.
type dataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// --- Request types ---

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	NIDN     string `json:"nidn"`
	Fakultas string `json:"fakultas"`
}

type registerDosenRequest struct {
	Name               string `json:"name"`
	TempatLahir        string `json:"tempat_lahir"`
	TanggalLahir       string `json:"tanggal_lahir"`
	JenisKelamin       string `json:"jenis_kelamin"`
	Alamat             string `json:"alamat"`
	NomorHP            string `json:"nomor_hp"`
	Email              string `json:"email"`
	NIDN               string `json:"nidn"`
	Fakultas           string `json:"fakultas"`
	ProgramStudi       string `json:"program_studi"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	KonfirmasiPassword string `json:"konfirmasi_password"`
}

// registerReviewerRequest arrives as multipart/form-data next to the "cv" file.
type registerReviewerRequest struct {
	Name               string `form:"name"`
	Email              string `form:"email"`
	NomorHP            string `form:"nomor_hp"`
	Instansi           string `form:"instansi"`
	BidangKeahlian     string `form:"bidang_keahlian"`
	PengalamanReview   string `form:"pengalaman_review"`
	Username           string `form:"username"`
	Password           string `form:"password"`
	KonfirmasiPassword string `form:"konfirmasi_password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type updateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	NIDN     *string `json:"nidn"`
	Fakultas *string `json:"fakultas"`
}

// --- Response types ---

type roleResponse struct {
	ID    int64  `json:"id"`
	Roles string `json:"roles"`
}

type registeredUserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	NIDN      string    `json:"nidn,omitempty"`
	Fakultas  string    `json:"fakultas,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type loginUserResponse struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Roles    roleResponse `json:"roles"`
	NIDN     string       `json:"nidn,omitempty"`
	Fakultas string       `json:"fakultas,omitempty"`
}

type loginResponse struct {
	Message     string            `json:"message"`
	Token       string            `json:"token"`
	AccessToken string            `json:"access_token"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        loginUserResponse `json:"user"`
}

// meResponse is the caller's own profile; empty fields are omitted so each
// role only sees what applies to it.
type meResponse struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Username         string       `json:"username,omitempty"`
	Email            string       `json:"email"`
	NomorHP          string       `json:"nomor_hp,omitempty"`
	IsActive         bool         `json:"is_active"`
	Roles            roleResponse `json:"roles"`
	NIDN             string       `json:"nidn,omitempty"`
	Fakultas         string       `json:"fakultas,omitempty"`
	ProgramStudi     string       `json:"program_studi,omitempty"`
	Instansi         string       `json:"instansi,omitempty"`
	BidangKeahlian   string       `json:"bidang_keahlian,omitempty"`
	PengalamanReview string       `json:"pengalaman_review,omitempty"`
}

type userResponse struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	NIDN      string       `json:"nidn,omitempty"`
	Fakultas  string       `json:"fakultas,omitempty"`
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Roles     roleResponse `json:"roles"`
}

type dosenProfileResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	NIDN      string    `json:"nidn,omitempty"`
	Fakultas  string    `json:"fakultas,omitempty"`
	Roles     string    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}
