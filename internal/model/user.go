package model

import "time"

// Role identifiers. The set is closed: every account is either an
// instructor or a parent/guardian, and post-login routing is decided from
// this value.
const (
	RoleInstructor = 1
	RoleParent     = 2
)

// ValidRole reports whether roleID belongs to the closed role set.
func ValidRole(roleID int) bool {
	return roleID == RoleInstructor || roleID == RoleParent
}

// User represents a user account in the system
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // stored lowercased
	PasswordHash string    `json:"-"`     // Do not expose password hash in JSON responses
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}
