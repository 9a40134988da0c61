package domain

import (
	"errors"
	"slices"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// User is a principal: an identity that can sign in and own tickets.
// Principals are never hard-deleted on the auth path — IsActive is the
// only off switch.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the principal holds the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}
