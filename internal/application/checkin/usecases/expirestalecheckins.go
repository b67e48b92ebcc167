package usecases

import (
	"context"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// DefaultPendingTTL is used when no TTL is configured.
const DefaultPendingTTL = 2 * time.Hour

// ExpireStaleCheckinsUseCase marks abandoned reservations as expired so the
// user can reserve again.
type ExpireStaleCheckinsUseCase struct {
	checkinRepo checkin.Repository
	ttl         time.Duration
	metrics     Metrics
	logger      logger.Interface
	now         func() time.Time
}

func NewExpireStaleCheckinsUseCase(
	checkinRepo checkin.Repository,
	ttl time.Duration,
	metrics Metrics,
	logger logger.Interface,
) *ExpireStaleCheckinsUseCase {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &ExpireStaleCheckinsUseCase{
		checkinRepo: checkinRepo,
		ttl:         ttl,
		metrics:     metrics,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute returns the number of check-ins expired.
func (uc *ExpireStaleCheckinsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.ttl)
	n, err := uc.checkinRepo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to expire stale check-ins", "cutoff", cutoff, "error", err)
		return 0, err
	}
	if n > 0 {
		uc.metrics.RecordExpired(int(n))
		uc.logger.Infow("stale check-ins expired", "count", n, "cutoff", cutoff)
	}
	return int(n), nil
}
