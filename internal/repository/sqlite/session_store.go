package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
)

const gdSessionColumns = `id, topic, details, group_name, group_number, date, participants, evaluators, created_by, created_at`

// SessionStore persists GD sessions.
type SessionStore struct {
	db *sql.DB
}

func (s *SessionStore) Create(ctx context.Context, gd *model.GDSession) error {
	if gd.ID == uuid.Nil {
		gd.ID = uuid.New()
	}
	if gd.CreatedAt.IsZero() {
		gd.CreatedAt = time.Now().UTC()
	}
	participants, err := json.Marshal(nonNil(gd.Participants))
	if err != nil {
		return err
	}
	evaluators, err := json.Marshal(nonNil(gd.Evaluators))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gd_sessions (`+gdSessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gd.ID.String(), gd.Topic, gd.Details, gd.GroupName, gd.GroupNumber, gd.Date.Format(model.DateLayout),
		string(participants), string(evaluators), gd.CreatedBy.String(), toMillis(gd.CreatedAt),
	)
	return mapError(err)
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.GDSession, error) {
	gd, err := scanGDSession(s.db.QueryRowContext(ctx,
		`SELECT `+gdSessionColumns+` FROM gd_sessions WHERE id = ?`, id.String()))
	return gd, mapError(err)
}

func (s *SessionStore) ListWhereParticipant(ctx context.Context, rollNumber string) ([]model.GDSession, error) {
	return s.list(ctx,
		`WHERE EXISTS (SELECT 1 FROM json_each(gd_sessions.participants) WHERE value = ?)`, rollNumber)
}

func (s *SessionStore) ListWhereEvaluator(ctx context.Context, rollNumber string) ([]model.GDSession, error) {
	return s.list(ctx,
		`WHERE EXISTS (SELECT 1 FROM json_each(gd_sessions.evaluators) WHERE value = ?)`, rollNumber)
}

func (s *SessionStore) ListCreatedBy(ctx context.Context, instructorID uuid.UUID) ([]model.GDSession, error) {
	return s.list(ctx, `WHERE created_by = ?`, instructorID.String())
}

func (s *SessionStore) list(ctx context.Context, where string, args ...any) ([]model.GDSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gdSessionColumns+` FROM gd_sessions `+where+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GDSession
	for rows.Next() {
		gd, err := scanGDSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *gd)
	}
	return out, rows.Err()
}

func scanGDSession(row rowScanner) (*model.GDSession, error) {
	var (
		gd                       model.GDSession
		id, date, createdBy      string
		participants, evaluators string
		createdAt                int64
	)
	if err := row.Scan(&id, &gd.Topic, &gd.Details, &gd.GroupName, &gd.GroupNumber, &date,
		&participants, &evaluators, &createdBy, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if gd.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if gd.CreatedBy, err = uuid.Parse(createdBy); err != nil {
		return nil, err
	}
	if gd.Date, err = time.Parse(model.DateLayout, date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(participants), &gd.Participants); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(evaluators), &gd.Evaluators); err != nil {
		return nil, err
	}
	gd.CreatedAt = fromMillis(createdAt)
	return &gd, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
