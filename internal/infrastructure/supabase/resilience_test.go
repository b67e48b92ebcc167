package supabase

import (
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
)

func TestRetryConfig_BackOffGrowsToCap(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        300 * time.Millisecond,
		BackoffMultiplier: 2,
	}
	b := cfg.newBackOff()

	var got []time.Duration
	for i := 0; i < 4; i++ {
		got = append(got, b.NextBackOff())
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		300 * time.Millisecond,
	}, got)
}

func TestRetryConfig_BackOffJitterStaysInRange(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, Jitter: 0.1}
	for i := 0; i < 20; i++ {
		d := cfg.newBackOff().NextBackOff()
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}

func TestRetryConfig_BackOffDefaults(t *testing.T) {
	b := RetryConfig{}.newBackOff()
	assert.Equal(t, backoff.DefaultInitialInterval, b.InitialInterval)
	assert.Equal(t, backoff.DefaultMaxInterval, b.MaxInterval)
	assert.Equal(t, backoff.DefaultMultiplier, b.Multiplier)
	assert.Zero(t, b.RandomizationFactor)
}
