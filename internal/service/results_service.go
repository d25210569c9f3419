package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/scoring"
)

// ResultsCache holds computed session results between submissions. Every
// Invalidate bumps the session's generation; a write carrying an older
// generation is refused.
type ResultsCache interface {
	// Get returns nil and no error on a miss.
	Get(ctx context.Context, sessionID uuid.UUID) (*model.SessionResults, error)
	Generation(ctx context.Context, sessionID uuid.UUID) (int64, error)
	SetIfGeneration(ctx context.Context, results *model.SessionResults, gen int64) (bool, error)
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// ResultsService builds results sheets for GD sessions.
type ResultsService struct {
	sessions    *GDSessionService
	evaluations repository.EvaluationStore
	users       repository.UserStore
	cache       ResultsCache
	log         zerolog.Logger
	now         func() time.Time
}

// NewResultsService creates a new ResultsService. cache may be nil.
func NewResultsService(
	sessions *GDSessionService,
	evaluations repository.EvaluationStore,
	users repository.UserStore,
	cache ResultsCache,
	log zerolog.Logger,
) *ResultsService {
	return &ResultsService{
		sessions:    sessions,
		evaluations: evaluations,
		users:       users,
		cache:       cache,
		log:         log.With().Str("component", "results_service").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SessionResults returns the results sheet of a session. Only instructors may
// read it. Cached results are served when present.
func (s *ResultsService) SessionResults(ctx context.Context, sessionID uuid.UUID, actor *model.Actor) (*model.SessionResults, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !actor.IsInstructor() {
		return nil, ErrNotAuthorized
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, sessionID)
		if err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Results cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx, sessionID)
}

// Refresh recomputes a session's results from the store and caches them,
// unless the session was invalidated while they were being computed.
func (s *ResultsService) Refresh(ctx context.Context, sessionID uuid.UUID) (*model.SessionResults, error) {
	gd, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var gen int64
	cacheable := s.cache != nil
	if cacheable {
		if gen, err = s.cache.Generation(ctx, sessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Results generation read failed")
			cacheable = false
		}
	}

	results, err := s.compute(ctx, gd)
	if err != nil {
		return nil, err
	}
	if cacheable {
		stored, err := s.cache.SetIfGeneration(ctx, results, gen)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Results cache write failed")
		case !stored:
			s.log.Debug().Str("session_id", sessionID.String()).Msg("Results changed during refresh; cache write skipped")
		}
	}
	return results, nil
}

// StudentResult returns the calling student's own row for a session.
func (s *ResultsService) StudentResult(ctx context.Context, sessionID uuid.UUID, actor *model.Actor) (*model.StudentResult, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !actor.IsStudent() {
		return nil, ErrNotAuthorized
	}
	gd, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !gd.HasParticipant(actor.RollNumber) {
		return nil, ErrInvalidSubject
	}

	evals, err := s.evaluations.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	row := studentRow(evals, sessionID, actor.RollNumber)
	if u, err := s.users.GetByID(ctx, actor.UserID); err == nil {
		row.Name = u.Name
	}
	return &row, nil
}

func (s *ResultsService) compute(ctx context.Context, gd *model.GDSession) (*model.SessionResults, error) {
	evals, err := s.evaluations.ListForSession(ctx, gd.ID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	users, err := s.users.ListByRollNumbers(ctx, gd.Participants)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.RollNumber()] = u.Name
	}

	results := &model.SessionResults{
		SessionID:  gd.ID,
		Topic:      gd.Topic,
		Date:       gd.Date,
		Students:   make([]model.StudentResult, 0, len(gd.Participants)),
		ComputedAt: s.now(),
	}
	for _, roll := range gd.Participants {
		row := studentRow(evals, gd.ID, roll)
		row.Name = names[roll]
		results.Students = append(results.Students, row)
	}
	return results, nil
}

func studentRow(evals []model.Evaluation, sessionID uuid.UUID, roll string) model.StudentResult {
	b := scoring.Calculate(evals, sessionID, roll)
	return model.StudentResult{
		RollNumber:      roll,
		ScoreBreakdown:  b,
		Overall:         scoring.Overall(b.FinalScores),
		EvaluationCount: scoring.Count(evals, sessionID, roll),
	}
}
