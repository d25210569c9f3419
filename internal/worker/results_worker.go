package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/service"
)

const (
	RefreshBatchSize    = 50
	RefreshBatchTimeout = 2 * time.Second
	RefreshPollTimeout  = 1 * time.Second
)

// RefreshSource is the queue of sessions awaiting recomputation.
type RefreshSource interface {
	// Pop returns redis.Nil when nothing arrived within timeout.
	Pop(ctx context.Context, timeout time.Duration) (uuid.UUID, error)
	Enqueue(ctx context.Context, sessionID uuid.UUID) error
}

// ResultsRefresher recomputes and caches a session's results.
type ResultsRefresher interface {
	Refresh(ctx context.Context, sessionID uuid.UUID) (*model.SessionResults, error)
}

// ResultsPublisher pushes fresh results to live subscribers.
type ResultsPublisher interface {
	Publish(ctx context.Context, res *model.SessionResults) error
}

// ResultsWorker drains the refresh queue in batches, rebuilding each touched
// session once per batch and publishing the new sheet.
type ResultsWorker struct {
	queue     RefreshSource
	refresher ResultsRefresher
	publisher ResultsPublisher
	log       zerolog.Logger

	BatchSize    int
	BatchTimeout time.Duration
	PollTimeout  time.Duration
}

func NewResultsWorker(queue RefreshSource, refresher ResultsRefresher, publisher ResultsPublisher, log zerolog.Logger) *ResultsWorker {
	return &ResultsWorker{
		queue:        queue,
		refresher:    refresher,
		publisher:    publisher,
		log:          log.With().Str("component", "results_worker").Logger(),
		BatchSize:    RefreshBatchSize,
		BatchTimeout: RefreshBatchTimeout,
		PollTimeout:  RefreshPollTimeout,
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes the pending batch.
func (w *ResultsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultsWorker started")

	batch := make([]uuid.UUID, 0, w.BatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.BatchSize || time.Since(lastFlush) >= w.BatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			id, err := w.queue.Pop(ctx, w.PollTimeout)
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Pop error")
				}
				continue
			}
			batch = append(batch, id)
		}
	}
}

// ----------------------------------------------------------------
// Batch refresh
// ----------------------------------------------------------------

func (w *ResultsWorker) flushSafe(ctx context.Context, batch []uuid.UUID) {
	if len(batch) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(batch))
	for _, id := range batch {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		res, err := w.refresher.Refresh(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				w.log.Warn().Str("session_id", id.String()).Msg("Dropping refresh for unknown session")
				continue
			}
			w.log.Error().Err(err).Str("session_id", id.String()).Msg("Refresh failed, requeueing")
			if err := w.queue.Enqueue(ctx, id); err != nil {
				w.log.Error().Err(err).Str("session_id", id.String()).Msg("Requeue failed")
			}
			continue
		}

		if err := w.publisher.Publish(ctx, res); err != nil {
			w.log.Warn().Err(err).Str("session_id", id.String()).Msg("Publish failed")
		}
	}

	w.log.Debug().Int("queued", len(batch)).Int("refreshed", len(seen)).Msg("Results batch flushed")
}
