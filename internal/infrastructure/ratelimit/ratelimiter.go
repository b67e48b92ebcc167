// Package ratelimit throttles calls per key, backed by Redis when it is
// configured and by in-process token buckets otherwise.
package ratelimit

import (
	"context"
	"time"
)

type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

func (c RateLimitConfig) windows() []window {
	return []window{
		{time.Minute, c.RequestsPerMinute},
		{time.Hour, c.RequestsPerHour},
		{24 * time.Hour, c.RequestsPerDay},
	}
}

// ShortestWindow is the smallest window with a limit, or a minute when
// none is set.
func (c RateLimitConfig) ShortestWindow() time.Duration {
	for _, w := range c.windows() {
		if w.limit > 0 {
			return w.duration
		}
	}
	return time.Minute
}

type window struct {
	duration time.Duration
	limit    int
}

type RateLimiter interface {
	// Allow records one request for key and reports whether it fits every
	// configured window.
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	Reset(ctx context.Context, key string) error
}
