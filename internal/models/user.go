package models

import "strings"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Principal is the authenticated caller as resolved by the auth
// middleware. Services never look at tokens; they only see this.
type Principal struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// IsAuthenticated reports whether the principal carries a usable
// identity. Attempt persistence requires this.
func (p Principal) IsAuthenticated() bool {
	return strings.TrimSpace(p.Username) != ""
}

// IsTeacher reports whether the principal has the elevated review
// role. Admins are a superset of teachers everywhere in this service.
func (p Principal) IsTeacher() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}

// Owns reports whether the attempt's recorded username belongs to
// this principal. Comparison is exact; usernames are stored as the
// identity provider hands them out.
func (p Principal) Owns(attemptUserName string) bool {
	return p.Username != "" && p.Username == attemptUserName
}

func ParseRole(s string) UserRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "teacher":
		return RoleTeacher
	case "admin":
		return RoleAdmin
	default:
		return RoleStudent
	}
}
