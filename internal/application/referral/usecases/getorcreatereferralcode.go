package usecases

import (
	"context"
	stderrors "errors"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

const maxCodeAttempts = 5

type GetOrCreateReferralCodeCommand struct {
	UserID     string
	CallerID   string
	CallerRole string
}

// CodeResult is the wire result of get_or_create_referral_code.
type CodeResult struct {
	Code string `json:"code"`
}

// GetOrCreateReferralCodeUseCase returns the user's referral code, issuing
// one on first use. A user's code never changes once issued.
type GetOrCreateReferralCodeUseCase struct {
	profiles profile.Repository
	logger   logger.Interface
	newCode  func() (string, error)
}

func NewGetOrCreateReferralCodeUseCase(profiles profile.Repository, logger logger.Interface) *GetOrCreateReferralCodeUseCase {
	return &GetOrCreateReferralCodeUseCase{profiles: profiles, logger: logger, newCode: id.NewReferralCode}
}

func (uc *GetOrCreateReferralCodeUseCase) Execute(ctx context.Context, cmd GetOrCreateReferralCodeCommand) (*CodeResult, error) {
	uc.logger.Infow("executing get or create referral code use case", "user_id", cmd.UserID)

	if cmd.UserID == "" {
		return nil, errors.NewValidationError("p_user_id is required")
	}
	if err := apppermission.ActingFor(cmd.CallerID, cmd.CallerRole, cmd.UserID); err != nil {
		return nil, err
	}

	p, err := uc.profiles.GetByID(ctx, cmd.UserID)
	if err != nil {
		if stderrors.Is(err, profile.ErrProfileNotFound) {
			return nil, errors.NewNotFoundError("profile not found", cmd.UserID)
		}
		return nil, err
	}
	if p.ReferralCode != nil && *p.ReferralCode != "" {
		return &CodeResult{Code: *p.ReferralCode}, nil
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := uc.newCode()
		if err != nil {
			return nil, errors.NewInternalError("failed to generate referral code")
		}
		if _, err := uc.profiles.GetByReferralCode(ctx, code); err == nil {
			continue
		} else if !stderrors.Is(err, profile.ErrProfileNotFound) {
			return nil, err
		}

		p.ReferralCode = &code
		if err := uc.profiles.Update(ctx, p); err != nil {
			if errors.IsDuplicateError(err) {
				uc.logger.Warnw("referral code collision", "attempt", attempt)
				continue
			}
			return nil, err
		}
		uc.logger.Infow("referral code issued", "user_id", p.ID)
		return &CodeResult{Code: code}, nil
	}
	return nil, errors.NewConflictError("could not allocate a unique referral code")
}
