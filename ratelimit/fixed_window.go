package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*FixWindowLimiter)(nil)

type window struct {
	start time.Time
	cnt   int64
}

// FixWindowLimiter allows maxRate calls per key in each interval.
type FixWindowLimiter struct {
	interval time.Duration
	maxRate  int64

	mutex   sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewFixWindowLimiter
// interval => 窗口多大
// maxRate 这个窗口内，能够执行多少个请求
func NewFixWindowLimiter(interval time.Duration, maxRate int64) *FixWindowLimiter {
	return &FixWindowLimiter{
		interval: interval,
		maxRate:  maxRate,
		windows:  make(map[string]*window, 16),
		now:      time.Now,
	}
}

func (l *FixWindowLimiter) Limit(_ context.Context, key string) (bool, error) {
	current := l.now()
	l.mutex.Lock()
	defer l.mutex.Unlock()
	w, ok := l.windows[key]
	// 换窗口了
	if !ok || !current.Before(w.start.Add(l.interval)) {
		w = &window{start: current}
		l.windows[key] = w
	}
	if w.cnt >= l.maxRate {
		return true, nil
	}
	w.cnt++
	return false, nil
}
