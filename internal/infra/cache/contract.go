package cache

import "context"

// Backend хранилище сериализованных значений (LRU в памяти процесса или Redis)
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Metrics счётчики попаданий и инвалидаций
type Metrics interface {
	CacheHit(family string)
	CacheMiss(family string)
	CacheInvalidated(family string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
