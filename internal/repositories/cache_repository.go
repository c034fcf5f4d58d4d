package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface кэш отчётов. Get возвращает ErrCacheMiss, если ключа нет.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr атомарно увеличивает счётчик поколения.
	Incr(ctx context.Context, key string) (int64, error)
}
