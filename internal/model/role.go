package model

import "github.com/google/uuid"

// Role distinguishes the two kinds of users.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor
}

// Actor is the authenticated identity a request acts as.
// RollNumber is empty for instructors.
type Actor struct {
	UserID     uuid.UUID
	Role       Role
	RollNumber string
}

// IsInstructor reports whether the actor has the instructor role.
func (a *Actor) IsInstructor() bool {
	return a != nil && a.Role == RoleInstructor
}

// IsStudent reports whether the actor has the student role.
func (a *Actor) IsStudent() bool {
	return a != nil && a.Role == RoleStudent
}
