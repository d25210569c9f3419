package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
)

type evaluationKey struct {
	sessionID   uuid.UUID
	subjectID   string
	evaluatorID uuid.UUID
}

// EvaluationStore keeps evaluations in submission order with an index on
// the (session, subject, evaluator) triple.
type EvaluationStore struct {
	mu    sync.RWMutex
	evals []model.Evaluation
	index map[evaluationKey]int

	now func() time.Time
}

// NewEvaluationStore creates an empty EvaluationStore.
func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{
		index: make(map[evaluationKey]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *EvaluationStore) ListForSession(_ context.Context, sessionID uuid.UUID) ([]model.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Evaluation
	for _, e := range s.evals {
		if e.GDSessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *EvaluationStore) Upsert(_ context.Context, sessionID uuid.UUID, subjectID string, evaluatorID uuid.UUID, role model.Role, c model.Criteria) (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := evaluationKey{sessionID: sessionID, subjectID: subjectID, evaluatorID: evaluatorID}
	if i, ok := s.index[key]; ok {
		s.evals[i].Criteria = c
		s.evals[i].CreatedAt = s.now()
		out := s.evals[i]
		return &out, nil
	}

	e := model.Evaluation{
		ID:            uuid.New(),
		GDSessionID:   sessionID,
		StudentID:     subjectID,
		EvaluatorID:   evaluatorID,
		EvaluatorRole: role,
		Criteria:      c,
		CreatedAt:     s.now(),
	}
	s.index[key] = len(s.evals)
	s.evals = append(s.evals, e)
	return &e, nil
}
