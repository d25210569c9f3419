// Package driver opens the stores selected by STORE_DRIVER.
package driver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/database"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/repository/memory"
	"github.com/stemsi/gdeval-backend/internal/repository/sqlite"
)

// Open builds the stores for cfg.StoreDriver. The returned func releases the
// underlying connections and is never nil on success.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Stores, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		return repository.Stores{
			Sessions:    repository.NewGDSessionRepository(pool),
			Evaluations: repository.NewEvaluationRepository(pool),
			Users:       repository.NewUserRepository(pool),
		}, pool.Close, nil

	case config.StoreDriverSQLite:
		db, err := database.NewSQLite(ctx, cfg.SQLitePath, log)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		store, err := sqlite.Open(ctx, db)
		if err != nil {
			_ = db.Close()
			return repository.Stores{}, nil, err
		}
		return store.Stores(), func() { _ = db.Close() }, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory stores; data is lost on restart")
		return memory.New(), func() {}, nil
	}
	return repository.Stores{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
