package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/gdeval-backend/internal/model"
)

const evaluationColumns = `id, gd_session_id, student_id, evaluator_id, evaluator_role,
	articulation, relevance, leadership, non_verbal_communication, impression, created_at`

// EvaluationRepository handles evaluation data access.
type EvaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

// ListForSession retrieves a session's evaluations in first-submission order.
func (r *EvaluationRepository) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]model.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evaluationColumns+`
		 FROM evaluations
		 WHERE gd_session_id = $1
		 ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *e)
	}
	return evals, rows.Err()
}

// Upsert inserts the evaluator's record for the subject or overwrites its
// criteria and timestamp. The stored evaluator role and position are kept.
func (r *EvaluationRepository) Upsert(ctx context.Context, sessionID uuid.UUID, subjectID string, evaluatorID uuid.UUID, role model.Role, c model.Criteria) (*model.Evaluation, error) {
	return scanEvaluation(r.pool.QueryRow(ctx,
		`INSERT INTO evaluations (id, gd_session_id, student_id, evaluator_id, evaluator_role,
		                          articulation, relevance, leadership, non_verbal_communication, impression)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (gd_session_id, student_id, evaluator_id) DO UPDATE
		 SET articulation = EXCLUDED.articulation,
		     relevance = EXCLUDED.relevance,
		     leadership = EXCLUDED.leadership,
		     non_verbal_communication = EXCLUDED.non_verbal_communication,
		     impression = EXCLUDED.impression,
		     created_at = NOW()
		 RETURNING `+evaluationColumns,
		uuid.New(), sessionID, subjectID, evaluatorID, role,
		c.Articulation, c.Relevance, c.Leadership, c.NonVerbalCommunication, c.Impression,
	))
}

func scanEvaluation(row pgx.Row) (*model.Evaluation, error) {
	var e model.Evaluation
	c := &e.Criteria
	if err := row.Scan(&e.ID, &e.GDSessionID, &e.StudentID, &e.EvaluatorID, &e.EvaluatorRole,
		&c.Articulation, &c.Relevance, &c.Leadership, &c.NonVerbalCommunication, &c.Impression,
		&e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
