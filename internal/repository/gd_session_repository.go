package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/gdeval-backend/internal/model"
)

// Member kinds stored alongside a session.
const (
	MemberParticipant = "participant"
	MemberEvaluator   = "evaluator"
)

const gdSessionSelect = `
	SELECT s.id, s.topic, s.details, s.group_name, s.group_number, s.date, s.created_by, s.created_at,
	       COALESCE(ARRAY_AGG(m.roll_number ORDER BY m.position) FILTER (WHERE m.kind = 'participant'), '{}'),
	       COALESCE(ARRAY_AGG(m.roll_number ORDER BY m.position) FILTER (WHERE m.kind = 'evaluator'), '{}')
	FROM gd_sessions s
	LEFT JOIN gd_session_members m ON m.session_id = s.id`

// GDSessionRepository handles GD session data access.
type GDSessionRepository struct {
	pool *pgxpool.Pool
}

// NewGDSessionRepository creates a new GDSessionRepository.
func NewGDSessionRepository(pool *pgxpool.Pool) *GDSessionRepository {
	return &GDSessionRepository{pool: pool}
}

// Create inserts a session and its member lists in one transaction. A zero
// CreatedAt is filled in by the database.
func (r *GDSessionRepository) Create(ctx context.Context, s *model.GDSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	var createdAt *time.Time
	if !s.CreatedAt.IsZero() {
		createdAt = &s.CreatedAt
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO gd_sessions (id, topic, details, group_name, group_number, date, created_by, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::timestamptz, NOW()))
			 RETURNING created_at`,
			s.ID, s.Topic, s.Details, s.GroupName, s.GroupNumber, s.Date, s.CreatedBy, createdAt,
		).Scan(&s.CreatedAt)
		if err != nil {
			return mapPgError(err)
		}

		for kind, rolls := range map[string][]string{
			MemberParticipant: s.Participants,
			MemberEvaluator:   s.Evaluators,
		} {
			if len(rolls) == 0 {
				continue
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO gd_session_members (session_id, kind, roll_number, position)
				 SELECT $1, $2, roll, pos FROM UNNEST($3::text[]) WITH ORDINALITY AS t(roll, pos)`,
				s.ID, kind, rolls,
			)
			if err != nil {
				return mapPgError(err)
			}
		}
		return nil
	})
}

// GetByID retrieves a session with its members.
func (r *GDSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GDSession, error) {
	s, err := scanGDSession(r.pool.QueryRow(ctx,
		gdSessionSelect+` WHERE s.id = $1 GROUP BY s.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListWhereParticipant retrieves the sessions rollNumber takes part in.
func (r *GDSessionRepository) ListWhereParticipant(ctx context.Context, rollNumber string) ([]model.GDSession, error) {
	return r.listByMember(ctx, MemberParticipant, rollNumber)
}

// ListWhereEvaluator retrieves the sessions rollNumber evaluates as a peer.
func (r *GDSessionRepository) ListWhereEvaluator(ctx context.Context, rollNumber string) ([]model.GDSession, error) {
	return r.listByMember(ctx, MemberEvaluator, rollNumber)
}

// ListCreatedBy retrieves the sessions an instructor created.
func (r *GDSessionRepository) ListCreatedBy(ctx context.Context, instructorID uuid.UUID) ([]model.GDSession, error) {
	return r.list(ctx,
		gdSessionSelect+` WHERE s.created_by = $1 GROUP BY s.id ORDER BY s.date DESC, s.created_at DESC`,
		instructorID)
}

func (r *GDSessionRepository) listByMember(ctx context.Context, kind, rollNumber string) ([]model.GDSession, error) {
	return r.list(ctx,
		gdSessionSelect+`
		WHERE s.id IN (SELECT session_id FROM gd_session_members WHERE kind = $1 AND roll_number = $2)
		GROUP BY s.id
		ORDER BY s.date DESC, s.created_at DESC`,
		kind, rollNumber)
}

func (r *GDSessionRepository) list(ctx context.Context, query string, args ...any) ([]model.GDSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.GDSession
	for rows.Next() {
		s, err := scanGDSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func scanGDSession(row pgx.Row) (*model.GDSession, error) {
	var s model.GDSession
	if err := row.Scan(&s.ID, &s.Topic, &s.Details, &s.GroupName, &s.GroupNumber, &s.Date,
		&s.CreatedBy, &s.CreatedAt, &s.Participants, &s.Evaluators); err != nil {
		return nil, err
	}
	return &s, nil
}
