package draft

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV binds the draft store to a Redis client. Drafts have no expiry; the
// controller clears them explicitly.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps the client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
