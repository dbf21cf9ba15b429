package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend общий кэш для нескольких экземпляров сервиса
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisBackend оборачивает клиент Redis. Все ключи получают prefix
func NewRedisBackend(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, b.prefix+key, value, b.ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = b.prefix + key
	}
	return b.client.Del(ctx, prefixed...).Err()
}
