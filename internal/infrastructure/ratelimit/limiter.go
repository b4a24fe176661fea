package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rfpdesk/backend/internal/domain"
)

// Limiter is a closable domain.RateLimiter
type Limiter interface {
	domain.RateLimiter
	Close() error
}

// Options selects and tunes the limiter backend
type Options struct {
	Store     string // "memory" or "redis"
	RedisURL  string
	PerMinute int
	IdleTTL   time.Duration
}

// New builds the limiter for the configured store. A non-positive PerMinute
// returns nil, meaning client rate limiting is disabled.
func New(ctx context.Context, opts Options) (Limiter, error) {
	if opts.PerMinute <= 0 {
		return nil, nil
	}

	switch opts.Store {
	case "", "memory":
		return NewMemoryLimiter(opts.PerMinute, opts.IdleTTL), nil
	case "redis":
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisLimiter(client, opts.PerMinute, time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown rate limit store: %s", opts.Store)
	}
}
