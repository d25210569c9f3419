package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// RefreshQueue schedules a background recomputation of a session's results.
type RefreshQueue interface {
	Enqueue(ctx context.Context, sessionID uuid.UUID) error
}

// EvaluationService handles evaluation submission and listing.
type EvaluationService struct {
	sessions    *GDSessionService
	evaluations repository.EvaluationStore
	cache       ResultsCache
	queue       RefreshQueue
	log         zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService. cache and queue may be
// nil, in which case submissions only touch the store.
func NewEvaluationService(
	sessions *GDSessionService,
	evaluations repository.EvaluationStore,
	cache ResultsCache,
	queue RefreshQueue,
	log zerolog.Logger,
) *EvaluationService {
	return &EvaluationService{
		sessions:    sessions,
		evaluations: evaluations,
		cache:       cache,
		queue:       queue,
		log:         log.With().Str("component", "evaluation_service").Logger(),
	}
}

// Submit records actor's scores for the participant subjectID, replacing the
// actor's earlier submission for the same participant if any.
//
// Checks run in order: authentication, session existence, evaluator
// membership (students only; instructors may always evaluate) and finally
// subject membership.
func (s *EvaluationService) Submit(ctx context.Context, sessionID uuid.UUID, subjectID string, criteria model.Criteria, actor *model.Actor) (*model.Evaluation, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	gd, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsInstructor() && !gd.HasEvaluator(actor.RollNumber) {
		return nil, ErrNotAuthorized
	}
	if !gd.HasParticipant(subjectID) {
		return nil, ErrInvalidSubject
	}

	e, err := s.evaluations.Upsert(ctx, sessionID, subjectID, actor.UserID, actor.Role, criteria)
	if err != nil {
		return nil, fmt.Errorf("upsert evaluation: %w", err)
	}

	s.log.Debug().
		Str("session_id", sessionID.String()).
		Str("student_id", subjectID).
		Str("evaluator_id", actor.UserID.String()).
		Msg("Evaluation saved")

	s.resultsChanged(ctx, sessionID)
	return e, nil
}

// ListForSession returns the evaluations visible to actor: all of them for an
// instructor, only their own for a student.
func (s *EvaluationService) ListForSession(ctx context.Context, sessionID uuid.UUID, actor *model.Actor) ([]model.Evaluation, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	evals, err := s.evaluations.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	if actor.IsInstructor() {
		return nonNilEvaluations(evals), nil
	}

	own := make([]model.Evaluation, 0)
	for _, e := range evals {
		if e.EvaluatorID == actor.UserID {
			own = append(own, e)
		}
	}
	return own, nil
}

// resultsChanged drops cached results and asks the worker to rebuild them.
// Failures are logged; the evaluation is already stored.
func (s *EvaluationService) resultsChanged(ctx context.Context, sessionID uuid.UUID) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, sessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to invalidate results cache")
		}
	}
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, sessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to queue results refresh")
		}
	}
}

func nonNilEvaluations(evals []model.Evaluation) []model.Evaluation {
	if evals == nil {
		return []model.Evaluation{}
	}
	return evals
}
