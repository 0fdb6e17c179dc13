package models

import "time"

// UserRole is the closed set of roles a user can hold.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// ParseUserRole maps raw input onto a defined role. Anything outside the two
// variants is rejected at the boundary.
func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User represents an account stored in the users table. There are no
// credentials: the client "logs in" by looking the account up by email.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
