package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

var _ Limiter = (*SlideWindowLimiter)(nil)

// SlideWindowLimiter allows maxRate calls per key in any interval long
// span of time.
type SlideWindowLimiter struct {
	maxRate  int
	interval time.Duration

	mutex sync.Mutex
	// timestamps of accepted calls inside the window, oldest first
	queues map[string]*list.List
	now    func() time.Time
}

func NewSlideWindowLimiter(maxRate int, interval time.Duration) *SlideWindowLimiter {
	return &SlideWindowLimiter{
		maxRate:  maxRate,
		interval: interval,
		queues:   make(map[string]*list.List, 16),
		now:      time.Now,
	}
}

func (l *SlideWindowLimiter) Limit(_ context.Context, key string) (bool, error) {
	current := l.now()
	l.mutex.Lock()
	defer l.mutex.Unlock()
	queue, ok := l.queues[key]
	if !ok {
		queue = list.New()
		l.queues[key] = queue
	}
	if queue.Len() < l.maxRate {
		queue.PushBack(current)
		return false, nil
	}
	// 慢路径，往前回溯
	windowStartTime := current.Add(-l.interval)
	reqTime := queue.Front()
	for reqTime != nil && !reqTime.Value.(time.Time).After(windowStartTime) {
		queue.Remove(reqTime)
		reqTime = queue.Front()
	}
	if queue.Len() >= l.maxRate {
		return true, nil
	}
	queue.PushBack(current)
	return false, nil
}
