package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

func TestSessionResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	peer := f.student(t, "Chitra", "C", "A")
	f.student(t, "Bala", "B", "A")
	gd := f.session(t, prof, "2026-03-01", "B,A,X9", "C")

	_, err := f.evals.Submit(ctx, gd.ID, "A", uniform(8), peer)
	require.NoError(t, err)
	_, err = f.evals.Submit(ctx, gd.ID, "A", uniform(6), prof)
	require.NoError(t, err)

	res, err := f.results.SessionResults(ctx, gd.ID, prof)
	require.NoError(t, err)
	assert.Equal(t, gd.ID, res.SessionID)
	assert.Equal(t, gd.Topic, res.Topic)
	require.Len(t, res.Students, 3)

	assert.Equal(t, "B", res.Students[0].RollNumber)
	assert.Equal(t, "Bala", res.Students[0].Name)
	assert.Equal(t, 0.0, res.Students[0].Overall)
	assert.Equal(t, 0, res.Students[0].EvaluationCount)

	assert.Equal(t, "A", res.Students[1].RollNumber)
	assert.Empty(t, res.Students[1].Name, "unregistered roll numbers have no name")
	assert.Equal(t, 7.0, res.Students[1].Overall)
	assert.Equal(t, 2, res.Students[1].EvaluationCount)
	assert.Equal(t, uniform(7), res.Students[1].FinalScores)

	assert.Equal(t, "X9", res.Students[2].RollNumber)
}

func TestSessionResultsServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	gd := f.session(t, prof, "2026-03-01", "A", "")

	stale := &model.SessionResults{SessionID: gd.ID, Topic: "cached"}
	f.cache.put(stale)

	res, err := f.results.SessionResults(ctx, gd.ID, prof)
	require.NoError(t, err)
	assert.Equal(t, "cached", res.Topic)

	fresh, err := f.results.Refresh(ctx, gd.ID)
	require.NoError(t, err)
	assert.Equal(t, gd.Topic, fresh.Topic)
	cached, _ := f.cache.Get(ctx, gd.ID)
	assert.Equal(t, fresh, cached)
}

// pausingEvaluations holds the first ListForSession call after its read until
// release is closed.
type pausingEvaluations struct {
	repository.EvaluationStore
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingEvaluations) ListForSession(ctx context.Context, id uuid.UUID) ([]model.Evaluation, error) {
	evals, err := p.EvaluationStore.ListForSession(ctx, id)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return evals, err
}

func TestSlowReadDoesNotOverwriteNewerResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	gd := f.session(t, prof, "2026-03-01", "A", "")

	_, err := f.evals.Submit(ctx, gd.ID, "A", uniform(1), prof)
	require.NoError(t, err)

	paused := &pausingEvaluations{
		EvaluationStore: f.stores.Evaluations,
		read:            make(chan struct{}),
		release:         make(chan struct{}),
	}
	slow := NewResultsService(f.sessions, paused, f.stores.Users, f.cache, zerolog.Nop())

	done := make(chan *model.SessionResults, 1)
	go func() {
		res, err := slow.SessionResults(ctx, gd.ID, prof)
		assert.NoError(t, err)
		done <- res
	}()

	select {
	case <-paused.read:
	case <-time.After(2 * time.Second):
		t.Fatal("slow reader never reached the store")
	}

	_, err = f.evals.Submit(ctx, gd.ID, "A", uniform(5), prof)
	require.NoError(t, err)
	fresh, err := f.results.Refresh(ctx, gd.ID)
	require.NoError(t, err)
	require.Equal(t, 5.0, fresh.Students[0].Overall)

	close(paused.release)
	old := <-done
	require.NotNil(t, old)
	assert.Equal(t, 1.0, old.Students[0].Overall)

	res, err := f.results.SessionResults(ctx, gd.ID, prof)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Students[0].Overall)
}

func TestSessionResultsAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	student := f.student(t, "Asha", "A", "A")
	gd := f.session(t, prof, "2026-03-01", "A", "")

	_, err := f.results.SessionResults(ctx, gd.ID, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.results.SessionResults(ctx, gd.ID, student)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = f.results.SessionResults(ctx, uuid.New(), prof)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStudentResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	asha := f.student(t, "Asha", "A", "A")
	outsider := f.student(t, "Dev", "D", "A")
	gd := f.session(t, prof, "2026-03-01", "A", "")

	_, err := f.evals.Submit(ctx, gd.ID, "A", uniform(9), prof)
	require.NoError(t, err)

	row, err := f.results.StudentResult(ctx, gd.ID, asha)
	require.NoError(t, err)
	assert.Equal(t, "Asha", row.Name)
	assert.Equal(t, uniform(9), row.InstructorScores)
	assert.Equal(t, 4.5, row.Overall)

	_, err = f.results.StudentResult(ctx, gd.ID, outsider)
	assert.ErrorIs(t, err, ErrInvalidSubject)
	_, err = f.results.StudentResult(ctx, gd.ID, prof)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = f.results.StudentResult(ctx, uuid.New(), asha)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
