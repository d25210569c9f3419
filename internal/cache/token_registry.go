package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/gdeval-backend/internal/config"
)

// TokenRegistry records issued token ids in Redis so logout can revoke them.
type TokenRegistry struct {
	rdb *redis.Client
}

// NewTokenRegistry creates a new TokenRegistry.
func NewTokenRegistry(rdb *redis.Client) *TokenRegistry {
	return &TokenRegistry{rdb: rdb}
}

func (r *TokenRegistry) Register(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.AuthTokenKey(userID.String(), jti), 1, ttl).Err()
}

func (r *TokenRegistry) Exists(ctx context.Context, userID uuid.UUID, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, config.CacheKey.AuthTokenKey(userID.String(), jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TokenRegistry) Revoke(ctx context.Context, userID uuid.UUID, jti string) error {
	return r.rdb.Del(ctx, config.CacheKey.AuthTokenKey(userID.String(), jti)).Err()
}
