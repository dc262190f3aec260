package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

var _ Limiter = (*TokenBucketLimiter)(nil)

// TokenBucketLimiter keeps one golang.org/x/time/rate bucket per key.
type TokenBucketLimiter struct {
	limit rate.Limit
	burst int

	mutex    sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewTokenBucketLimiter refills perSecond tokens a second and holds at
// most burst of them.
func NewTokenBucketLimiter(perSecond float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter, 16),
	}
}

func (l *TokenBucketLimiter) bucket(key string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *TokenBucketLimiter) Limit(_ context.Context, key string) (bool, error) {
	return !l.bucket(key).Allow(), nil
}
