// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access (catalog management, analytics)
	RoleAdmin UserRole = "admin"

	// Default role for standard registered shoppers
	RoleUser UserRole = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsValid reports whether the role is one of the known values.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Resolved Identity

// Identity is the authenticated caller, resolved against the credential store.
//
// It is threaded explicitly through context by the auth middleware; handlers
// never consult mutable request state for "who is calling".
type Identity struct {
	UserID string
	Role   UserRole
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
