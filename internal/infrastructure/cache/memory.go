package cache

import (
	"context"
	"sync"
	"time"
)

// cacheItem represents a single item in the cache with expiration
type cacheItem[V any] struct {
	Value      V
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Values are stored as-is, so pointer values stay shared between callers.
type MemoryCache[V any] struct {
	data  map[string]cacheItem[V]
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every cleanupInterval until Close is called.
func NewMemoryCache[V any](cleanupInterval time.Duration) *MemoryCache[V] {
	cache := &MemoryCache[V]{
		data: make(map[string]cacheItem[V]),
		stop: make(chan struct{}),
	}

	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// GetOrCreate returns the live value for key, creating it when absent or
// expired. The TTL is refreshed on every access.
func (c *MemoryCache[V]) GetOrCreate(ctx context.Context, key string, ttl time.Duration, create func() V) V {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	item, exists := c.data[key]
	if !exists || now.After(item.Expiration) {
		item = cacheItem[V]{Value: create()}
	}
	item.Expiration = now.Add(ttl)
	c.data[key] = item

	return item.Value
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache[V]) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache[V]) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// Close stops the cleanup goroutine
func (c *MemoryCache[V]) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

// Size returns the number of stored entries, expired ones included until
// the next sweep
func (c *MemoryCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
