//go:build e2e

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlideWindowLimiter_Limit(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	ctx := context.Background()
	key := "e2e-" + time.Now().Format("150405.000")
	l := NewRedisSlideWindowLimiter(rdb, "consolebridge", 1, time.Second*3)

	limited, err := l.Limit(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited)

	limited, err = l.Limit(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited)

	// 睡一个三秒，确保窗口滑过去了
	time.Sleep(time.Second * 3)
	limited, err = l.Limit(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited)
}
