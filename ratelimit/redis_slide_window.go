package ratelimit

import (
	"context"
	_ "embed"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/google/uuid"
)

var _ Limiter = (*RedisSlideWindowLimiter)(nil)

//go:embed lua/slide_window.lua
var luaSlideWindow string

// RedisSlideWindowLimiter shares a sliding window between every server
// using the same redis.
type RedisSlideWindowLimiter struct {
	prefix string
	// 窗口内的流量阈值
	maxRate int
	// 窗口大小，毫秒
	interval int64
	client   redis.Cmdable
}

func NewRedisSlideWindowLimiter(client redis.Cmdable, prefix string, maxRate int, interval time.Duration) *RedisSlideWindowLimiter {
	return &RedisSlideWindowLimiter{
		client:   client,
		prefix:   prefix,
		maxRate:  maxRate,
		interval: interval.Milliseconds(),
	}
}

func (l *RedisSlideWindowLimiter) Limit(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	return l.client.Eval(ctx, luaSlideWindow, []string{l.prefix + ":" + key},
		l.interval, l.maxRate, now.UnixMilli(), uuid.NewString()).Bool()
}
