package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores values as plain Redis strings without expiry.  Prefix
// namespaces the whole application inside a shared Redis database.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an existing client.  The client is owned by the caller.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix != "" {
		prefix += ":"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

// Get implements Store.  redis.Nil is translated to ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

// Incr implements Incrementer with INCR.  A non-integer value makes Redis
// reject the command; the caller falls back to an opaque reference.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	return r.rdb.Incr(ctx, r.prefix+key).Result()
}
