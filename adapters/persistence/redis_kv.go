package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

// redisKV keeps snapshots as plain string keys without expiry; snapshot age is enforced by
// the reconciler from the embedded timestamp.
type redisKV struct {
	rdb *redis.Client
}

func NewRedisKeyValueStore(rdb *redis.Client) service.KeyValueStore {
	return &redisKV{rdb: rdb}
}

func (r *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperror.NewInternal("failed to read key "+key, err)
	}
	return val, true, nil
}

func (r *redisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return apperror.NewInternal("failed to write key "+key, err)
	}
	return nil
}

func (r *redisKV) Remove(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return apperror.NewInternal("failed to remove key "+key, err)
	}
	return nil
}
