package models

import "strings"

// Role determines which portal areas a user may act in.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleVendor    Role = "vendor"
	RoleEvaluator Role = "evaluator"
)

// ValidRoles lists every role the portal backend can assign.
var ValidRoles = []Role{RoleAdmin, RoleStaff, RoleVendor, RoleEvaluator}

// IsValid returns true if the role is one the backend can assign.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User is the portal account profile as returned by the auth endpoints.
type User struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsAdmin returns true for portal administrators.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
