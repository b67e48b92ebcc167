package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

var limiters = map[string]func(t *testing.T) RateLimiter{
	"memory": func(*testing.T) RateLimiter { return NewMemoryRateLimiter() },
	"redis":  func(t *testing.T) RateLimiter { return NewRedisRateLimiter(setupTestRedis(t)) },
}

func TestRateLimiter_Allow_PerHour(t *testing.T) {
	for name, build := range limiters {
		t.Run(name, func(t *testing.T) {
			limiter := build(t)
			ctx := context.Background()
			config := RateLimitConfig{RequestsPerHour: 3}

			for i := 0; i < 3; i++ {
				allowed, err := limiter.Allow(ctx, "validate:user-1", config)
				require.NoError(t, err)
				assert.True(t, allowed, "request %d should be allowed", i+1)
			}

			allowed, err := limiter.Allow(ctx, "validate:user-1", config)
			require.NoError(t, err)
			assert.False(t, allowed, "4th request should be denied")

			allowed, err = limiter.Allow(ctx, "validate:user-2", config)
			require.NoError(t, err)
			assert.True(t, allowed, "other keys are not affected")
		})
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	for name, build := range limiters {
		t.Run(name, func(t *testing.T) {
			limiter := build(t)
			ctx := context.Background()
			config := RateLimitConfig{RequestsPerMinute: 1}

			allowed, err := limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			assert.True(t, allowed)
			allowed, err = limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			assert.False(t, allowed)

			require.NoError(t, limiter.Reset(ctx, "k"))
			allowed, err = limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestMemoryRateLimiter_DeniedRequestDoesNotConsumeOtherWindows(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()
	config := RateLimitConfig{RequestsPerMinute: 1, RequestsPerHour: 2}

	allowed, _ := limiter.Allow(ctx, "k", config)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "k", config)
	assert.False(t, allowed, "minute window exhausted")

	now = now.Add(time.Minute)
	allowed, _ = limiter.Allow(ctx, "k", config)
	assert.True(t, allowed, "hour window still has a token")
}

func TestMemoryRateLimiter_Refills(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()
	config := RateLimitConfig{RequestsPerHour: 2}

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Allow(ctx, "k", config)
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow(ctx, "k", config)
	assert.False(t, allowed)

	now = now.Add(31 * time.Minute)
	allowed, _ = limiter.Allow(ctx, "k", config)
	assert.True(t, allowed)
}

func TestRateLimiter_DeniedRequestIsNotRecorded(t *testing.T) {
	for name, build := range limiters {
		t.Run(name, func(t *testing.T) {
			limiter := build(t)
			ctx := context.Background()
			config := RateLimitConfig{RequestsPerMinute: 1, RequestsPerHour: 2}

			allowed, err := limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			assert.True(t, allowed)

			for i := 0; i < 3; i++ {
				allowed, err = limiter.Allow(ctx, "k", config)
				require.NoError(t, err)
				assert.False(t, allowed)
			}

			// only the minute window was full; the hour window holds one request
			allowed, err = limiter.Allow(ctx, "k", RateLimitConfig{RequestsPerHour: 2})
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestRateLimitConfig_ShortestWindow(t *testing.T) {
	assert.Equal(t, time.Minute, RateLimitConfig{RequestsPerMinute: 5, RequestsPerDay: 10}.ShortestWindow())
	assert.Equal(t, time.Hour, RateLimitConfig{RequestsPerHour: 5}.ShortestWindow())
	assert.Equal(t, time.Minute, RateLimitConfig{}.ShortestWindow())
}
