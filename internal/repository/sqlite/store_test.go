package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/database"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/repository/sqlite"
	"github.com/stemsi/gdeval-backend/internal/repository/storetest"
)

func TestStores(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Stores {
		ctx := context.Background()
		db, err := database.NewSQLite(ctx, filepath.Join(t.TempDir(), "gdeval.db"), zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		store, err := sqlite.Open(ctx, db)
		require.NoError(t, err)
		return store.Stores()
	})
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLite(ctx, filepath.Join(t.TempDir(), "gdeval.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	_, err = sqlite.Open(ctx, db)
	require.NoError(t, err)
	_, err = sqlite.Open(ctx, db)
	require.NoError(t, err)
}
