// Package sqlite implements the repository stores over a single SQLite file.
// Member lists are stored as JSON arrays and matched with json_each.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/gdeval-backend/internal/repository"
)

//go:embed schema.sql
var schema string

// Store bundles the SQLite-backed stores over one handle.
type Store struct {
	db *sql.DB
}

// Open applies the schema to db and returns the store.
func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Stores exposes the driver through the repository interfaces.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Sessions:    &SessionStore{db: s.db},
		Evaluations: &EvaluationStore{db: s.db},
		Users:       &UserStore{db: s.db},
	}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return repository.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return repository.ErrDuplicate
	}
	return err
}
