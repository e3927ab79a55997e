package domain

import "time"

// Gender values as they travel over the wire.
type Gender string

const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

// User models an account holder of the portal. Optional fields are empty
// strings in memory and NULL in storage.
type User struct {
	ID               int64
	Name             string
	Email            string
	Username         string
	PasswordHash     string
	IdentityNumber   string // NIDN/NIP
	Faculty          string
	StudyProgram     string
	BirthPlace       string
	BirthDate        *time.Time
	Gender           Gender
	Address          string
	Phone            string
	Institution      string
	Expertise        string
	ReviewExperience string
	CVPath           string
	Role             RoleRecord
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserStatus filters listings by activation state.
type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
)

// ListUsersFilter narrows the admin user listing. Zero values mean "any".
type ListUsersFilter struct {
	Status UserStatus
	Role   Role
	Search string
}

// ProfileUpdate carries the fields a lecturer may change on their own record.
// Nil pointers leave the column untouched.
type ProfileUpdate struct {
	Name           *string
	IdentityNumber *string
	Faculty        *string
}
