package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// GDSessionService handles creating and listing GD sessions.
type GDSessionService struct {
	sessions repository.SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

// NewGDSessionService creates a new GDSessionService.
func NewGDSessionService(sessions repository.SessionStore, log zerolog.Logger) *GDSessionService {
	return &GDSessionService{
		sessions: sessions,
		log:      log.With().Str("component", "gd_session_service").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new session on behalf of an instructor. Participant and
// evaluator lists are normalized with model.ParseRollNumbers.
func (s *GDSessionService) Create(ctx context.Context, req model.CreateGDSessionRequest, actor *model.Actor) (*model.GDSession, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !actor.IsInstructor() {
		return nil, ErrNotAuthorized
	}

	date, err := time.Parse(model.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSession)
	}
	participants := model.ParseRollNumbers(req.Participants)
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrInvalidSession)
	}

	gd := &model.GDSession{
		ID:           uuid.New(),
		Topic:        strings.TrimSpace(req.Topic),
		Details:      strings.TrimSpace(req.Details),
		GroupName:    strings.TrimSpace(req.GroupName),
		GroupNumber:  strings.TrimSpace(req.GroupNumber),
		Date:         date,
		Participants: participants,
		Evaluators:   model.ParseRollNumbers(req.Evaluators),
		CreatedBy:    actor.UserID,
		CreatedAt:    s.now(),
	}
	if err := s.sessions.Create(ctx, gd); err != nil {
		return nil, fmt.Errorf("create gd session: %w", err)
	}

	s.log.Info().
		Str("session_id", gd.ID.String()).
		Int("participants", len(gd.Participants)).
		Int("evaluators", len(gd.Evaluators)).
		Msg("GD session created")
	return gd, nil
}

// GetByID retrieves a session by ID.
func (s *GDSessionService) GetByID(ctx context.Context, id uuid.UUID) (*model.GDSession, error) {
	gd, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get gd session: %w", err)
	}
	return gd, nil
}

// ListForUser returns the caller's dashboard. Instructors see the sessions
// they created under Evaluating; students see where they take part and where
// they evaluate.
func (s *GDSessionService) ListForUser(ctx context.Context, actor *model.Actor) (*model.GDSessionsForUser, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	out := &model.GDSessionsForUser{
		Participating: []model.GDSession{},
		Evaluating:    []model.GDSession{},
	}
	if actor.IsInstructor() {
		created, err := s.sessions.ListCreatedBy(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("list created sessions: %w", err)
		}
		out.Evaluating = append(out.Evaluating, created...)
		return out, nil
	}

	participating, err := s.sessions.ListWhereParticipant(ctx, actor.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("list participating sessions: %w", err)
	}
	evaluating, err := s.sessions.ListWhereEvaluator(ctx, actor.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("list evaluating sessions: %w", err)
	}
	out.Participating = append(out.Participating, participating...)
	out.Evaluating = append(out.Evaluating, evaluating...)
	return out, nil
}
