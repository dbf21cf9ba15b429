package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUBackend кэш в памяти процесса с вытеснением по размеру и TTL
type LRUBackend struct {
	cache *expirable.LRU[string, []byte]
}

// NewLRUBackend создает LRU-кэш. ttl <= 0 отключает истечение по времени
func NewLRUBackend(size int, ttl time.Duration) *LRUBackend {
	if ttl < 0 {
		ttl = 0
	}
	return &LRUBackend{cache: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (b *LRUBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := b.cache.Get(key)
	return value, ok, nil
}

func (b *LRUBackend) Set(_ context.Context, key string, value []byte) error {
	b.cache.Add(key, value)
	return nil
}

func (b *LRUBackend) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		b.cache.Remove(key)
	}
	return nil
}

// Len возвращает количество записей
func (b *LRUBackend) Len() int {
	return b.cache.Len()
}
