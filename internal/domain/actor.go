package domain

// Actor identifies the caller of an operation. Identity and role arrive as
// plain request data and are trusted as-is; Verified marks actors resolved
// from a signed session token instead.
type Actor struct {
	ID       string
	Role     UserRole
	Verified bool
}

// IsAdmin reports whether the actor asserted the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
