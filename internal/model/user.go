package model

import "time"

// User roles.  USER may create and cancel their own orders; MANAGER and
// ADMIN may additionally change order statuses and delete tours and
// destinations.
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// IsStaffRole reports whether the role grants back-office access.
func IsStaffRole(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

// User mirrors the 'users' table.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
