package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/scoring"
)

// ScoreService computes score breakdowns from stored evaluations.
type ScoreService struct {
	evaluations repository.EvaluationStore
}

// NewScoreService creates a new ScoreService.
func NewScoreService(evaluations repository.EvaluationStore) *ScoreService {
	return &ScoreService{evaluations: evaluations}
}

// CalculateScores returns the breakdown for one participant of a session.
// Only the store read can fail; a student with no evaluations gets zeros.
func (s *ScoreService) CalculateScores(ctx context.Context, sessionID uuid.UUID, studentID string) (model.ScoreBreakdown, error) {
	evals, err := s.evaluations.ListForSession(ctx, sessionID)
	if err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("list evaluations: %w", err)
	}
	return scoring.Calculate(evals, sessionID, studentID), nil
}
