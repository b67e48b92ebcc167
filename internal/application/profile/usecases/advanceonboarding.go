package usecases

import (
	"context"
	stderrors "errors"
	"time"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type AdvanceOnboardingCommand struct {
	UserID     string
	Step       string
	CallerID   string
	CallerRole string
}

// AdvanceOnboardingUseCase marks an onboarding step completed. Completing a
// step other than the current one returns the current step unchanged.
type AdvanceOnboardingUseCase struct {
	profiles  profile.Repository
	txManager db.Transactor
	logger    logger.Interface
	now       func() time.Time
}

func NewAdvanceOnboardingUseCase(profiles profile.Repository, txManager db.Transactor, logger logger.Interface) *AdvanceOnboardingUseCase {
	return &AdvanceOnboardingUseCase{profiles: profiles, txManager: txManager, logger: logger, now: biztime.NowUTC}
}

func (uc *AdvanceOnboardingUseCase) Execute(ctx context.Context, cmd AdvanceOnboardingCommand) (*profile.OnboardingResult, error) {
	uc.logger.Infow("executing advance onboarding use case", "user_id", cmd.UserID, "step", cmd.Step)

	if cmd.UserID == "" {
		return nil, errors.NewValidationError("p_user_id is required")
	}
	step, err := profile.ParseStep(cmd.Step)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := apppermission.ActingFor(cmd.CallerID, cmd.CallerRole, cmd.UserID); err != nil {
		return nil, err
	}

	var result profile.OnboardingResult
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := uc.profiles.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		advanced := p.Advance(step)
		result = profile.OnboardingResult{Step: p.OnboardingStep, Completed: p.OnboardingStep.Completed()}
		if !advanced {
			return nil
		}
		p.UpdatedAt = uc.now()
		return uc.profiles.Update(ctx, p)
	})
	if err != nil {
		if stderrors.Is(err, profile.ErrProfileNotFound) {
			return nil, errors.NewNotFoundError("profile not found", cmd.UserID)
		}
		uc.logger.Errorw("failed to advance onboarding", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	uc.logger.Infow("onboarding evaluated", "user_id", cmd.UserID, "step", result.Step, "completed", result.Completed)
	return &result, nil
}
