package memory_test

import (
	"testing"

	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/repository/memory"
	"github.com/stemsi/gdeval-backend/internal/repository/storetest"
)

func TestStores(t *testing.T) {
	storetest.Run(t, func(*testing.T) repository.Stores { return memory.New() })
}
