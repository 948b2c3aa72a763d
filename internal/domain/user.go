package domain

import "time"

// Role enumerates account privilege levels. The set is closed: anything
// outside it is coerced to RoleUser at the boundary.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps an arbitrary input value onto the closed role set.
// Unknown values become RoleUser, never RoleAdmin.
func ParseRole(value string) Role {
	if Role(value) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the domain model for registered accounts.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
