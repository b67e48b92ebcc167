package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript checks every window of one key and records the
// request only when all of them have room. KEYS are the per-window sorted
// sets; ARGV is now, member, then a (window, limit) pair per key, all
// durations in milliseconds.
var slidingWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
for i, key in ipairs(KEYS) do
	local window = tonumber(ARGV[1 + i * 2])
	local limit = tonumber(ARGV[2 + i * 2])
	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
	if redis.call('ZCARD', key) >= limit then
		return 0
	end
end
for i, key in ipairs(KEYS) do
	local window = tonumber(ARGV[1 + i * 2])
	redis.call('ZADD', key, now, ARGV[2])
	redis.call('PEXPIRE', key, window)
end
return 1
`)

// RedisRateLimiter keeps a sliding window log per key and window in sorted
// sets, so limits hold across server instances.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, now: time.Now}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	var (
		keys []string
		args = []any{l.now().UnixMilli(), uuid.NewString()}
	)
	for _, w := range config.windows() {
		if w.limit <= 0 {
			continue
		}
		keys = append(keys, windowKey(key, w.duration))
		args = append(args, w.duration.Milliseconds(), w.limit)
	}
	if len(keys) == 0 {
		return true, nil
	}

	allowed, err := slidingWindowScript.Run(ctx, l.client, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return allowed == 1, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	var keys []string
	for _, w := range (RateLimitConfig{}).windows() {
		keys = append(keys, windowKey(key, w.duration))
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit %s: %w", key, err)
	}
	return nil
}

func windowKey(key string, window time.Duration) string {
	return "ratelimit:" + key + ":" + window.String()
}
