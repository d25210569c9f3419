package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/repository/storetest"
)

// newPool migrates TEST_DATABASE_URL to the latest schema and connects to it,
// skipping when it is unset. The database is wiped by every store reset.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	m, err := migrate.New("file://../../migrations", url)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

func TestStores(t *testing.T) {
	pool := newPool(t)

	storetest.Run(t, func(t *testing.T) repository.Stores {
		_, err := pool.Exec(context.Background(),
			`TRUNCATE evaluations, gd_session_members, gd_sessions, users CASCADE`)
		require.NoError(t, err)

		return repository.Stores{
			Sessions:    repository.NewGDSessionRepository(pool),
			Evaluations: repository.NewEvaluationRepository(pool),
			Users:       repository.NewUserRepository(pool),
		}
	})
}
