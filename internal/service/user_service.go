package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// UserService handles account registration, login and profiles.
type UserService struct {
	users repository.UserStore
	auth  *AuthService
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserStore, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		auth:  auth,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates an account. Students must supply their full academic
// profile and instructors a designation.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	u := &model.User{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  req.Role,
	}

	switch req.Role {
	case model.RoleStudent:
		p := &model.StudentProfile{
			RollNumber: strings.TrimSpace(req.RollNumber),
			Department: strings.TrimSpace(req.Department),
			Section:    strings.TrimSpace(req.Section),
			Year:       strings.TrimSpace(req.Year),
		}
		if p.RollNumber == "" || p.Department == "" || p.Section == "" || p.Year == "" {
			return nil, ErrProfileIncomplete
		}
		u.Student = p
	case model.RoleInstructor:
		designation := strings.TrimSpace(req.Designation)
		if designation == "" {
			return nil, ErrProfileIncomplete
		}
		u.Instructor = &model.InstructorProfile{Designation: designation}
	default:
		return nil, ErrProfileIncomplete
	}

	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken, err := s.rollNumberTaken(ctx, u.RollNumber()); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrRollNumberTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			if taken, _ := s.rollNumberTaken(ctx, u.RollNumber()); taken {
				return nil, ErrRollNumberTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("User registered")
	return u, nil
}

// Authenticate returns the user owning email when password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the caller's name and the profile fields of their role.
// Empty optional fields keep their stored value; the roll number never changes.
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.Actor, req model.UpdateProfileRequest) (*model.User, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	u, err := s.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(req.Name)
	switch {
	case u.Student != nil:
		u.Student.Department = keep(u.Student.Department, req.Department)
		u.Student.Section = keep(u.Student.Section, req.Section)
		u.Student.Year = keep(u.Student.Year, req.Year)
	case u.Instructor != nil:
		u.Instructor.Designation = keep(u.Instructor.Designation, req.Designation)
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *UserService) rollNumberTaken(ctx context.Context, roll string) (bool, error) {
	if roll == "" {
		return false, nil
	}
	users, err := s.users.ListByRollNumbers(ctx, []string{roll})
	if err != nil {
		return false, fmt.Errorf("check roll number: %w", err)
	}
	return len(users) > 0, nil
}

func keep(current, next string) string {
	if next = strings.TrimSpace(next); next != "" {
		return next
	}
	return current
}
