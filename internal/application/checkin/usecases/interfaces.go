package usecases

import (
	"context"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
)

// AcademyReader loads the academy a check-in targets.
type AcademyReader interface {
	GetByID(ctx context.Context, id string) (*academy.Academy, error)
}

// RateLimiter throttles validation attempts per user.
type RateLimiter interface {
	Allow(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error)
}

// Metrics counts check-in outcomes.
type Metrics interface {
	RecordValidation(outcome string)
	RecordReservation(outcome string)
	RecordExpired(n int)
}

// Validation outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeIdempotent  = "already_validated"
	OutcomeTooFar      = "too_far"
	OutcomeNotPending  = "not_pending"
	OutcomeForeign     = "foreign"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
)
