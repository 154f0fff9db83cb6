package domain

import "time"

// UserRole separates customers from administrators. The admin role is the
// single global privilege boundary; there is no per-resource ACL.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r UserRole) bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for accounts, customers and admins alike.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
