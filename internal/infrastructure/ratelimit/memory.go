package ratelimit

import (
	"context"
	"time"

	"github.com/rfpdesk/backend/internal/infrastructure/cache"
	"github.com/rfpdesk/backend/internal/infrastructure/metrics"
	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one token bucket per client key. Buckets idle for
// longer than idleTTL are evicted by the underlying cache.
type MemoryLimiter struct {
	buckets *cache.MemoryCache[*rate.Limiter]
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// NewMemoryLimiter allows perMinute requests per key with a burst of perMinute
func NewMemoryLimiter(perMinute int, idleTTL time.Duration) *MemoryLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	return &MemoryLimiter{
		buckets: cache.NewMemoryCache[*rate.Limiter](idleTTL),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		idleTTL: idleTTL,
	}
}

// Allow consumes one token from the key's bucket
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.buckets.GetOrCreate(ctx, key, l.idleTTL, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	metrics.RateLimitBuckets.Set(float64(l.Buckets()))
	return bucket.Allow(), nil
}

// Buckets returns the number of client buckets currently held
func (l *MemoryLimiter) Buckets() int {
	return l.buckets.Size()
}

// Close stops the eviction goroutine
func (l *MemoryLimiter) Close() error {
	l.buckets.Close()
	return nil
}
