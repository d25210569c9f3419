package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/service"
)

type chanQueue struct {
	ch       chan uuid.UUID
	mu       sync.Mutex
	requeued []uuid.UUID
}

func (q *chanQueue) Pop(ctx context.Context, timeout time.Duration) (uuid.UUID, error) {
	select {
	case id := <-q.ch:
		return id, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	case <-time.After(timeout):
		return uuid.Nil, redis.Nil
	}
}

func (q *chanQueue) Enqueue(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requeued = append(q.requeued, id)
	return nil
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls map[uuid.UUID]int
	fail  map[uuid.UUID]error
}

func (r *fakeRefresher) Refresh(_ context.Context, id uuid.UUID) (*model.SessionResults, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id]++
	if err := r.fail[id]; err != nil {
		return nil, err
	}
	return &model.SessionResults{SessionID: id}, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []uuid.UUID
}

func (p *fakePublisher) Publish(_ context.Context, res *model.SessionResults) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, res.SessionID)
	return nil
}

func (p *fakePublisher) snapshot() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uuid.UUID(nil), p.published...)
}

func newTestWorker(q *chanQueue, r *fakeRefresher, p *fakePublisher) *ResultsWorker {
	w := NewResultsWorker(q, r, p, zerolog.Nop())
	w.BatchTimeout = 20 * time.Millisecond
	w.PollTimeout = 5 * time.Millisecond
	return w
}

func TestResultsWorkerDeduplicatesBatch(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	q := &chanQueue{ch: make(chan uuid.UUID, 8)}
	r := &fakeRefresher{calls: map[uuid.UUID]int{}, fail: map[uuid.UUID]error{}}
	p := &fakePublisher{}
	w := newTestWorker(q, r, p)
	w.BatchSize = 4
	w.BatchTimeout = time.Hour

	for _, id := range []uuid.UUID{a, a, b, a} {
		q.ch <- id
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(p.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.ElementsMatch(t, []uuid.UUID{a, b}, p.snapshot())
	assert.Equal(t, 1, r.calls[a])
	assert.Equal(t, 1, r.calls[b])
}

func TestResultsWorkerFlushesOnShutdown(t *testing.T) {
	a := uuid.New()
	q := &chanQueue{ch: make(chan uuid.UUID, 1)}
	r := &fakeRefresher{calls: map[uuid.UUID]int{}, fail: map[uuid.UUID]error{}}
	p := &fakePublisher{}
	w := newTestWorker(q, r, p)
	w.BatchTimeout = time.Hour

	q.ch <- a
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	// Give the loop time to append the popped id before stopping it.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []uuid.UUID{a}, p.snapshot())
}

func TestResultsWorkerFlushSafe(t *testing.T) {
	ok, missing, broken := uuid.New(), uuid.New(), uuid.New()
	q := &chanQueue{ch: make(chan uuid.UUID)}
	r := &fakeRefresher{
		calls: map[uuid.UUID]int{},
		fail: map[uuid.UUID]error{
			missing: service.ErrSessionNotFound,
			broken:  errors.New("store down"),
		},
	}
	p := &fakePublisher{}
	w := newTestWorker(q, r, p)

	w.flushSafe(context.Background(), []uuid.UUID{ok, missing, broken, broken})

	assert.Equal(t, []uuid.UUID{ok}, p.snapshot())
	assert.Equal(t, []uuid.UUID{broken}, q.requeued)
	assert.Equal(t, 1, r.calls[broken])
}
