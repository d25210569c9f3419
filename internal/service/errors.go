package service

import "errors"

// Domain errors returned by the GD evaluation services. Handlers map each one
// to its own response code.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized for this action")
	ErrSessionNotFound  = errors.New("gd session not found")
	ErrInvalidSubject   = errors.New("student is not a participant of this session")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrRollNumberTaken    = errors.New("roll number is already registered")
	ErrProfileIncomplete  = errors.New("profile is missing required fields for this role")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidExport      = errors.New("invalid export request")
	ErrInvalidSession     = errors.New("invalid gd session")
)
