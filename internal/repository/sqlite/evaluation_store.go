package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
)

const evaluationColumns = `id, gd_session_id, student_id, evaluator_id, evaluator_role,
	articulation, relevance, leadership, non_verbal_communication, impression, created_at`

// EvaluationStore persists evaluations. The seq column keeps first-submission order.
type EvaluationStore struct {
	db *sql.DB
}

func (s *EvaluationStore) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]model.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE gd_session_id = ? ORDER BY seq`,
		sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *EvaluationStore) Upsert(ctx context.Context, sessionID uuid.UUID, subjectID string, evaluatorID uuid.UUID, role model.Role, c model.Criteria) (*model.Evaluation, error) {
	e, err := scanEvaluation(s.db.QueryRowContext(ctx,
		`INSERT INTO evaluations (id, gd_session_id, student_id, evaluator_id, evaluator_role,
		                          articulation, relevance, leadership, non_verbal_communication, impression, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (gd_session_id, student_id, evaluator_id) DO UPDATE SET
		     articulation = excluded.articulation,
		     relevance = excluded.relevance,
		     leadership = excluded.leadership,
		     non_verbal_communication = excluded.non_verbal_communication,
		     impression = excluded.impression,
		     created_at = excluded.created_at
		 RETURNING `+evaluationColumns,
		uuid.New().String(), sessionID.String(), subjectID, evaluatorID.String(), string(role),
		c.Articulation, c.Relevance, c.Leadership, c.NonVerbalCommunication, c.Impression,
		toMillis(time.Now()),
	))
	return e, mapError(err)
}

func scanEvaluation(row rowScanner) (*model.Evaluation, error) {
	var (
		e                     model.Evaluation
		id, sessionID, evalID string
		role                  string
		createdAt             int64
	)
	c := &e.Criteria
	if err := row.Scan(&id, &sessionID, &e.StudentID, &evalID, &role,
		&c.Articulation, &c.Relevance, &c.Leadership, &c.NonVerbalCommunication, &c.Impression,
		&createdAt); err != nil {
		return nil, err
	}
	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if e.GDSessionID, err = uuid.Parse(sessionID); err != nil {
		return nil, err
	}
	if e.EvaluatorID, err = uuid.Parse(evalID); err != nil {
		return nil, err
	}
	e.EvaluatorRole = model.Role(role)
	e.CreatedAt = fromMillis(createdAt)
	return &e, nil
}
