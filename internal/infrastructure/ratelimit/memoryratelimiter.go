package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter holds one token bucket per key and window. Each bucket
// starts full at the window's limit and refills evenly over the window.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]map[window]*rate.Limiter
	now     func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		buckets: make(map[string]map[window]*rate.Limiter),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, config RateLimitConfig) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	perKey, ok := l.buckets[key]
	if !ok {
		perKey = make(map[window]*rate.Limiter)
		l.buckets[key] = perKey
	}

	var taken []*rate.Reservation
	for _, w := range config.windows() {
		if w.limit <= 0 {
			continue
		}
		lim, ok := perKey[w]
		if !ok {
			lim = rate.NewLimiter(rate.Every(w.duration/time.Duration(w.limit)), w.limit)
			perKey[w] = lim
		}
		r := lim.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range taken {
				prev.CancelAt(now)
			}
			return false, nil
		}
		taken = append(taken, r)
	}
	return true, nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
	return nil
}
