package domain

import "strings"

// Role is the closed set of portal roles. Role records carrying these names
// are seeded by migration and are read-only at runtime.
type Role string

const (
	RoleAdminLPPM        Role = "ADMIN_LPPM"
	RoleStaffLPPM        Role = "STAFF_LPPM"
	RoleDosen            Role = "DOSEN"
	RoleReviewer         Role = "REVIEWER"
	RoleExternalReviewer Role = "REVIEWER_EKSTERNAL"
	RoleExternalParty    Role = "PIHAK_EKSTERNAL"
)

var knownRoles = map[Role]struct{}{
	RoleAdminLPPM:        {},
	RoleStaffLPPM:        {},
	RoleDosen:            {},
	RoleReviewer:         {},
	RoleExternalReviewer: {},
	RoleExternalParty:    {},
}

// ParseRole normalises s (trimmed, upper-cased) and returns ErrRoleNotFound
// for anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrRoleNotFound
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// RoleRecord is a persisted role row. The JSON shape {id, roles} is what
// clients of the portal expect under user.roles.
type RoleRecord struct {
	ID   int64 `json:"id"`
	Name Role  `json:"roles"`
}
