package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each record kind as a plain string value under
// "<prefix>:<kind>".  Keys never expire.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisBackend returns a backend using rdb.  An empty prefix falls
// back to "railway".
func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "railway"
	}
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

// Key returns the Redis key holding kind.
func (b *RedisBackend) Key(kind Kind) string {
	return b.prefix + ":" + string(kind)
}

func (b *RedisBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	body, err := b.rdb.Get(ctx, b.Key(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", kind, err)
	}
	return body, nil
}

func (b *RedisBackend) Write(ctx context.Context, kind Kind, body []byte) error {
	if err := b.rdb.Set(ctx, b.Key(kind), body, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", kind, err)
	}
	return nil
}
