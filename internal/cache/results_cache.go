// Package cache holds the Redis-backed pieces shared by the API and the
// results worker.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/model"
)

// ResultsCache stores computed session results as JSON and fans out updates
// over Redis PubSub.
type ResultsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultsCache creates a new ResultsCache whose entries expire after ttl.
func NewResultsCache(rdb *redis.Client, ttl time.Duration) *ResultsCache {
	return &ResultsCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached results, or nil on a miss.
func (c *ResultsCache) Get(ctx context.Context, sessionID uuid.UUID) (*model.SessionResults, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.SessionResultsKey(sessionID.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get results: %w", err)
	}

	var res model.SessionResults
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &res, nil
}

// Generation returns the session's invalidation counter, 0 when it was never
// invalidated.
func (c *ResultsCache) Generation(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, config.CacheKey.SessionResultsGenerationKey(sessionID.String())).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get results generation: %w", err)
	}
	return gen, nil
}

// SetIfGeneration stores results only while the session's generation still
// equals gen. It reports whether the write happened.
func (c *ResultsCache) SetIfGeneration(ctx context.Context, res *model.SessionResults, gen int64) (bool, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return false, fmt.Errorf("encode results: %w", err)
	}
	id := res.SessionID.String()
	genKey := config.CacheKey.SessionResultsGenerationKey(id)

	stored := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, config.CacheKey.SessionResultsKey(id), raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("set results: %w", err)
	}
	return stored, nil
}

// Invalidate drops the cached results of a session and bumps its generation,
// so writes computed from older reads are refused.
func (c *ResultsCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	id := sessionID.String()
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, config.CacheKey.SessionResultsGenerationKey(id))
		pipe.Del(ctx, config.CacheKey.SessionResultsKey(id))
		return nil
	})
	return err
}

// Publish sends results to every live subscriber of the session.
func (c *ResultsCache) Publish(ctx context.Context, res *model.SessionResults) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return c.rdb.Publish(ctx, config.CacheKey.SessionResultsChannel(res.SessionID.String()), raw).Err()
}

// Listen streams published results of a session. The channel closes when
// stop is called or ctx ends.
func (c *ResultsCache) Listen(ctx context.Context, sessionID uuid.UUID) (<-chan *model.SessionResults, func(), error) {
	sub := c.rdb.Subscribe(ctx, config.CacheKey.SessionResultsChannel(sessionID.String()))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe results: %w", err)
	}

	out := make(chan *model.SessionResults, 4)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var res model.SessionResults
			if err := json.Unmarshal([]byte(msg.Payload), &res); err != nil {
				continue
			}
			select {
			case out <- &res:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = sub.Close() }, nil
}
