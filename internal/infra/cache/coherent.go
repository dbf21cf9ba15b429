package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache слой согласованности поверх Backend.
//
// Пока по ключу идёт загрузка, у него есть поколение, которое увеличивается при инвалидации.
// Загрузка запоминает поколение до обращения к хранилищу и записывает результат, только если
// поколение не изменилось и запрос не был отменён клиентом. Состояние ключа удаляется, когда
// завершается последняя загрузка, поэтому размер карты ограничен числом загрузок в полёте.
// Одновременные загрузки одного ключа схлопываются через singleflight.
//
// Значения, возвращаемые Load, нельзя изменять: один результат может достаться нескольким вызывающим.
type Cache struct {
	backend Backend
	metrics Metrics
	logger  Logger

	mu    sync.Mutex
	loads map[string]*loadState

	group singleflight.Group
}

// New создает кэш. backend == nil отключает кэширование: Load всегда вызывает fetch
func New(backend Backend, metrics Metrics, logger Logger) *Cache {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Cache{
		backend: backend,
		metrics: metrics,
		logger:  logger,
		loads:   make(map[string]*loadState),
	}
}

// Enabled сообщает, подключен ли backend
func (c *Cache) Enabled() bool {
	return c != nil && c.backend != nil
}

// Load возвращает значение по ключу из кэша или загружает его через fetch
func Load[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return fetch(ctx)
	}

	// 1. Пробуем прочитать из кэша
	var cached T
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	// 2. Запоминаем поколение до обращения к хранилищу
	gen := c.begin(key)
	defer c.finish(key)
	flightKey := fmt.Sprintf("%s#%d", key, gen)

	// 3. Загружаем, схлопывая одновременные запросы
	res, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, gen, value)
		return value, nil
	})

	if err != nil {
		// Лидер был отменён своим клиентом, а наш контекст жив: загружаем сами
		if shared && ctx.Err() == nil && isContextErr(err) {
			return fetch(ctx)
		}
		var zero T
		return zero, err
	}

	return res.(T), nil
}

// Invalidate удаляет ключи и увеличивает их поколения
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if st, ok := c.loads[key]; ok {
			st.gen++
		}
		c.metrics.CacheInvalidated(family(key))
	}

	// Инвалидация не должна зависеть от отмены клиентского запроса
	if err := c.backend.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		c.logger.Error("Cache: failed to invalidate keys %v: %v", keys, err)
	}
}

func (c *Cache) lookup(ctx context.Context, key string, dst interface{}) bool {
	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache: get %s failed: %v", key, err)
		c.metrics.CacheMiss(family(key))
		return false
	}
	if !ok {
		c.metrics.CacheMiss(family(key))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Cache: corrupted entry %s: %v", key, err)
		c.metrics.CacheMiss(family(key))
		return false
	}
	c.metrics.CacheHit(family(key))
	return true
}

// loadState поколение ключа и число незавершённых загрузок
type loadState struct {
	gen     uint64
	pending int
}

func (c *Cache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.loads[key]
	if !ok {
		st = &loadState{}
		c.loads[key] = st
	}
	st.pending++
	return st.gen
}

func (c *Cache) finish(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.loads[key]
	if !ok {
		return
	}
	st.pending--
	if st.pending <= 0 {
		delete(c.loads, key)
	}
}

// trackedKeys число ключей с незавершёнными загрузками
func (c *Cache) trackedKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.loads)
}

func (c *Cache) store(ctx context.Context, key string, gen uint64, value interface{}) {
	if ctx.Err() != nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Cache: failed to encode %s: %v", key, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.loads[key]; !ok || st.gen != gen {
		c.logger.Info("Cache: drop stale result for %s", key)
		return
	}

	if err := c.backend.Set(ctx, key, data); err != nil {
		c.logger.Warn("Cache: set %s failed: %v", key, err)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type nopMetrics struct{}

func (nopMetrics) CacheHit(string)         {}
func (nopMetrics) CacheMiss(string)        {}
func (nopMetrics) CacheInvalidated(string) {}
