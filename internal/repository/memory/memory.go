// Package memory implements the repository stores in process memory. It backs
// local demos and tests; nothing survives a restart.
package memory

import (
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// New returns a fresh set of empty stores.
func New() repository.Stores {
	return repository.Stores{
		Sessions:    NewSessionStore(),
		Evaluations: NewEvaluationStore(),
		Users:       NewUserStore(),
	}
}

var (
	_ repository.SessionStore    = (*SessionStore)(nil)
	_ repository.EvaluationStore = (*EvaluationStore)(nil)
	_ repository.UserStore       = (*UserStore)(nil)
)
