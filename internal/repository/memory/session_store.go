package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// SessionStore keeps GD sessions in a map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]model.GDSession
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]model.GDSession)}
}

func (s *SessionStore) Create(_ context.Context, gd *model.GDSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gd.ID == uuid.Nil {
		gd.ID = uuid.New()
	}
	if _, ok := s.sessions[gd.ID]; ok {
		return repository.ErrDuplicate
	}
	if gd.CreatedAt.IsZero() {
		gd.CreatedAt = time.Now().UTC()
	}
	s.sessions[gd.ID] = cloneSession(*gd)
	return nil
}

func (s *SessionStore) GetByID(_ context.Context, id uuid.UUID) (*model.GDSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gd, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneSession(gd)
	return &out, nil
}

func (s *SessionStore) ListWhereParticipant(_ context.Context, rollNumber string) ([]model.GDSession, error) {
	return s.filter(func(gd *model.GDSession) bool { return gd.HasParticipant(rollNumber) }), nil
}

func (s *SessionStore) ListWhereEvaluator(_ context.Context, rollNumber string) ([]model.GDSession, error) {
	return s.filter(func(gd *model.GDSession) bool { return gd.HasEvaluator(rollNumber) }), nil
}

func (s *SessionStore) ListCreatedBy(_ context.Context, instructorID uuid.UUID) ([]model.GDSession, error) {
	return s.filter(func(gd *model.GDSession) bool { return gd.CreatedBy == instructorID }), nil
}

// filter returns matching sessions, newest date first.
func (s *SessionStore) filter(keep func(*model.GDSession) bool) []model.GDSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.GDSession
	for _, gd := range s.sessions {
		if keep(&gd) {
			out = append(out, cloneSession(gd))
		}
	}
	slices.SortFunc(out, func(a, b model.GDSession) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func cloneSession(gd model.GDSession) model.GDSession {
	gd.Participants = slices.Clone(gd.Participants)
	gd.Evaluators = slices.Clone(gd.Evaluators)
	return gd
}
