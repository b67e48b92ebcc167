package usecases

import (
	"context"
	stderrors "errors"
	"time"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type AcceptFamilyInviteCommand struct {
	Token      string
	UserID     string
	CallerID   string
	CallerRole string
}

// AcceptFamilyInviteUseCase attaches the user to the inviter's family plan.
// Rejections are reported as a result with Success=false.
type AcceptFamilyInviteUseCase struct {
	profiles  profile.Repository
	invites   referral.InviteRepository
	txManager db.Transactor
	policy    FamilyPolicy
	logger    logger.Interface
	now       func() time.Time
}

func NewAcceptFamilyInviteUseCase(
	profiles profile.Repository,
	invites referral.InviteRepository,
	txManager db.Transactor,
	policy FamilyPolicy,
	logger logger.Interface,
) *AcceptFamilyInviteUseCase {
	return &AcceptFamilyInviteUseCase{
		profiles:  profiles,
		invites:   invites,
		txManager: txManager,
		policy:    policy.withDefaults(),
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

func (uc *AcceptFamilyInviteUseCase) Execute(ctx context.Context, cmd AcceptFamilyInviteCommand) (*referral.Result, error) {
	uc.logger.Infow("executing accept family invite use case", "user_id", cmd.UserID)

	if cmd.Token == "" || cmd.UserID == "" {
		return nil, errors.NewValidationError("p_token and p_user_id are required")
	}
	if err := apppermission.ActingFor(cmd.CallerID, cmd.CallerRole, cmd.UserID); err != nil {
		return nil, err
	}

	var rejection error
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rejection = nil
		invite, err := uc.invites.GetByToken(ctx, cmd.Token)
		if err != nil {
			if stderrors.Is(err, referral.ErrInviteNotFound) {
				rejection = referral.ErrInviteNotFound
				return nil
			}
			return err
		}

		now := uc.now()
		if err := invite.CheckAcceptable(cmd.UserID, now); err != nil {
			rejection = err
			return nil
		}

		member, err := uc.profiles.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if member.FamilyOwnerID != nil {
			rejection = referral.ErrAlreadyFamily
			return nil
		}

		count, err := uc.profiles.CountFamilyMembers(ctx, invite.OwnerID)
		if err != nil {
			return err
		}
		if count >= int64(uc.policy.MaxMembers) {
			rejection = referral.ErrFamilyFull
			return nil
		}

		if err := invite.Accept(cmd.UserID, now); err != nil {
			rejection = err
			return nil
		}
		if err := uc.invites.Update(ctx, invite); err != nil {
			return err
		}
		member.FamilyOwnerID = &invite.OwnerID
		return uc.profiles.Update(ctx, member)
	})
	if err != nil {
		uc.logger.Errorw("failed to accept family invite", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	if rejection != nil {
		uc.logger.Infow("family invite rejected", "user_id", cmd.UserID, "reason", rejection.Error())
		return &referral.Result{Success: false, Message: rejection.Error()}, nil
	}
	uc.logger.Infow("family invite accepted", "user_id", cmd.UserID)
	return &referral.Result{Success: true}, nil
}
