package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
)

// Store errors shared by every driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// SessionStore persists GD sessions with their participant and evaluator lists.
type SessionStore interface {
	// Create stores s. A zero ID or CreatedAt is filled in by the store.
	Create(ctx context.Context, s *model.GDSession) error
	// GetByID returns ErrNotFound when no session has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.GDSession, error)
	ListWhereParticipant(ctx context.Context, rollNumber string) ([]model.GDSession, error)
	ListWhereEvaluator(ctx context.Context, rollNumber string) ([]model.GDSession, error)
	ListCreatedBy(ctx context.Context, instructorID uuid.UUID) ([]model.GDSession, error)
}

// EvaluationStore persists evaluations, at most one per
// (session, subject, evaluator) triple.
type EvaluationStore interface {
	// ListForSession returns the session's evaluations in first-submission order.
	// Resubmitting does not move a record.
	ListForSession(ctx context.Context, sessionID uuid.UUID) ([]model.Evaluation, error)
	// Upsert creates the triple's record or replaces its criteria and timestamp.
	Upsert(ctx context.Context, sessionID uuid.UUID, subjectID string, evaluatorID uuid.UUID, role model.Role, criteria model.Criteria) (*model.Evaluation, error)
}

// UserStore persists accounts.
type UserStore interface {
	// Create returns ErrDuplicate when the email or roll number is taken.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListByRollNumbers returns the students registered under any of rollNumbers.
	ListByRollNumbers(ctx context.Context, rollNumbers []string) ([]model.User, error)
	// Update saves the name and profile of an existing user.
	Update(ctx context.Context, u *model.User) error
}

// Stores groups one driver's implementations.
type Stores struct {
	Sessions    SessionStore
	Evaluations EvaluationStore
	Users       UserStore
}
