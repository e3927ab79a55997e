package domain

import "time"

// Claims is the verified payload of a session token. It is never persisted.
type Claims struct {
	UserID    int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
