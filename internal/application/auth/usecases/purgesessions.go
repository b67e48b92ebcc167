package usecases

import (
	"context"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// PurgeExpiredSessionsUseCase deletes refresh sessions past their expiry.
type PurgeExpiredSessionsUseCase struct {
	sessions account.SessionRepository
	logger   logger.Interface
	now      func() time.Time
}

func NewPurgeExpiredSessionsUseCase(sessions account.SessionRepository, logger logger.Interface) *PurgeExpiredSessionsUseCase {
	return &PurgeExpiredSessionsUseCase{sessions: sessions, logger: logger, now: biztime.NowUTC}
}

func (uc *PurgeExpiredSessionsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.sessions.DeleteExpired(ctx, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to purge expired sessions", "error", err)
		return 0, err
	}
	return int(n), nil
}
