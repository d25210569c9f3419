package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentProfile holds the attributes only students have.
type StudentProfile struct {
	RollNumber string `json:"roll_number"`
	Department string `json:"department"`
	Section    string `json:"section"`
	Year       string `json:"year"`
}

// InstructorProfile holds the attributes only instructors have.
type InstructorProfile struct {
	Designation string `json:"designation"`
}

// User is a registered account. Exactly one of Student or Instructor is set,
// matching Role.
type User struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	Role         Role               `json:"role"`
	Student      *StudentProfile    `json:"student,omitempty"`
	Instructor   *InstructorProfile `json:"instructor,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// RollNumber returns the student's roll number, or "" for instructors.
func (u *User) RollNumber() string {
	if u.Student == nil {
		return ""
	}
	return u.Student.RollNumber
}

// Actor returns the identity used by services when u performs an action.
func (u *User) Actor() *Actor {
	return &Actor{UserID: u.ID, Role: u.Role, RollNumber: u.RollNumber()}
}

// RegisterRequest is the payload for creating an account.
// Role-specific fields are checked by the service against the chosen role.
type RegisterRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	Role        Role   `json:"role" binding:"required,oneof=student instructor"`
	RollNumber  string `json:"roll_number" binding:"omitempty,max=32"`
	Department  string `json:"department" binding:"omitempty,max=100"`
	Section     string `json:"section" binding:"omitempty,max=20"`
	Year        string `json:"year" binding:"omitempty,max=10"`
	Designation string `json:"designation" binding:"omitempty,max=100"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login or registration.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest changes the caller's own profile. Fields not belonging
// to the caller's role are ignored.
type UpdateProfileRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Department  string `json:"department" binding:"omitempty,max=100"`
	Section     string `json:"section" binding:"omitempty,max=20"`
	Year        string `json:"year" binding:"omitempty,max=10"`
	Designation string `json:"designation" binding:"omitempty,max=100"`
}
