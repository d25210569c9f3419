package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/gdeval-backend/internal/config"
)

// RefreshQueue is the Redis list of sessions whose results need rebuilding.
type RefreshQueue struct {
	rdb *redis.Client
}

// NewRefreshQueue creates a new RefreshQueue.
func NewRefreshQueue(rdb *redis.Client) *RefreshQueue {
	return &RefreshQueue{rdb: rdb}
}

// Enqueue appends a session id to the queue.
func (q *RefreshQueue) Enqueue(ctx context.Context, sessionID uuid.UUID) error {
	return q.rdb.RPush(ctx, config.WorkerKey.ResultsRefreshQueue, sessionID.String()).Err()
}

// Pop blocks up to timeout for the next session id. It returns redis.Nil when
// the queue stayed empty.
func (q *RefreshQueue) Pop(ctx context.Context, timeout time.Duration) (uuid.UUID, error) {
	item, err := q.rdb.BLPop(ctx, timeout, config.WorkerKey.ResultsRefreshQueue).Result()
	if err != nil {
		return uuid.Nil, err
	}
	if len(item) < 2 {
		return uuid.Nil, redis.Nil
	}
	id, err := uuid.Parse(item[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id %q: %w", item[1], err)
	}
	return id, nil
}

// Len returns the number of queued refreshes.
func (q *RefreshQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, config.WorkerKey.ResultsRefreshQueue).Result()
}
