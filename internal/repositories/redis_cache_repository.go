package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss ключ отсутствует в кеше.
var ErrCacheMiss = errors.New("ключ отсутствует в кеше")

const cacheKeyPrefix = "fixtrack:"

// RedisCacheRepository хранит ключи с общим префиксом, чтобы делить Redis с другими сервисами.
type RedisCacheRepository struct {
	client redis.Cmdable
}

func NewRedisCacheRepository(client redis.Cmdable) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client}
}

func namespaced(key string) string { return cacheKeyPrefix + key }

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, namespaced(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrCacheMiss
	case err != nil:
		return "", err
	}
	return val, nil
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, namespaced(key), value, ttl).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = namespaced(k)
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *RedisCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, namespaced(key)).Result()
}
