package usecases

import (
	"context"
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// RefreshActiveRankingsUseCase re-ranks every competition that is running.
// A failing competition is logged and skipped.
type RefreshActiveRankingsUseCase struct {
	ranker *UpdateCompetitionRankingsUseCase
	logger logger.Interface
	now    func() time.Time
}

func NewRefreshActiveRankingsUseCase(ranker *UpdateCompetitionRankingsUseCase, logger logger.Interface) *RefreshActiveRankingsUseCase {
	return &RefreshActiveRankingsUseCase{ranker: ranker, logger: logger, now: biztime.NowUTC}
}

// Execute returns the number of competitions re-ranked.
func (uc *RefreshActiveRankingsUseCase) Execute(ctx context.Context) (int, error) {
	active, err := uc.ranker.competitions.ListActive(ctx, uc.now())
	if err != nil {
		return 0, err
	}

	done := 0
	for _, comp := range active {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if _, err := uc.ranker.rank(ctx, comp); err != nil {
			uc.logger.Warnw("skipping competition ranking", "competition_id", comp.ID, "error", err)
			continue
		}
		done++
	}
	return done, nil
}
