package usecases

import (
	"context"
	stderrors "errors"
	"time"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type InviteMailer interface {
	SendFamilyInvite(to, inviter, token string, expiresAt time.Time) error
}

// FamilyPolicy bounds family plans. Zero values fall back to the referral
// package defaults.
type FamilyPolicy struct {
	MaxMembers int
	InviteTTL  time.Duration
}

func (p FamilyPolicy) withDefaults() FamilyPolicy {
	if p.MaxMembers <= 0 {
		p.MaxMembers = referral.MaxFamilyMembers
	}
	if p.InviteTTL <= 0 {
		p.InviteTTL = referral.InviteTTL
	}
	return p
}

type CreateFamilyInviteCommand struct {
	OwnerID    string
	Email      string
	CallerID   string
	CallerRole string
}

// InviteResult is the wire result of create_family_invite.
type InviteResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateFamilyInviteUseCase struct {
	profiles profile.Repository
	invites  referral.InviteRepository
	mailer   InviteMailer
	policy   FamilyPolicy
	logger   logger.Interface
	now      func() time.Time
}

func NewCreateFamilyInviteUseCase(
	profiles profile.Repository,
	invites referral.InviteRepository,
	mailer InviteMailer,
	policy FamilyPolicy,
	logger logger.Interface,
) *CreateFamilyInviteUseCase {
	return &CreateFamilyInviteUseCase{
		profiles: profiles,
		invites:  invites,
		mailer:   mailer,
		policy:   policy.withDefaults(),
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

func (uc *CreateFamilyInviteUseCase) Execute(ctx context.Context, cmd CreateFamilyInviteCommand) (*InviteResult, error) {
	uc.logger.Infow("executing create family invite use case", "owner_id", cmd.OwnerID)

	if cmd.OwnerID == "" || cmd.Email == "" {
		return nil, errors.NewValidationError("p_owner_id and p_email are required")
	}
	if err := apppermission.ActingFor(cmd.CallerID, cmd.CallerRole, cmd.OwnerID); err != nil {
		return nil, err
	}

	owner, err := uc.profiles.GetByID(ctx, cmd.OwnerID)
	if err != nil {
		if stderrors.Is(err, profile.ErrProfileNotFound) {
			return nil, errors.NewNotFoundError("profile not found", cmd.OwnerID)
		}
		return nil, err
	}
	if owner.FamilyOwnerID != nil {
		return nil, errors.NewValidationError(referral.ErrAlreadyFamily.Error())
	}
	members, err := uc.profiles.CountFamilyMembers(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if members >= int64(uc.policy.MaxMembers) {
		return nil, errors.NewValidationError(referral.ErrFamilyFull.Error())
	}

	token, err := id.NewInviteToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate invite token")
	}
	invite, err := referral.NewFamilyInvite(id.NewUUID(), owner.ID, cmd.Email, token, uc.now(), uc.policy.InviteTTL)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), cmd.Email)
	}
	if err := uc.invites.Create(ctx, invite); err != nil {
		uc.logger.Errorw("failed to create family invite", "owner_id", owner.ID, "error", err)
		return nil, err
	}

	inviter := owner.FullName
	if inviter == "" {
		inviter = owner.Email
	}
	if err := uc.mailer.SendFamilyInvite(invite.Email, inviter, invite.Token, invite.ExpiresAt); err != nil {
		uc.logger.Warnw("failed to send family invite email", "invite_id", invite.ID, "error", err)
	}

	uc.logger.Infow("family invite created", "invite_id", invite.ID, "owner_id", owner.ID)
	return &InviteResult{Token: invite.Token, ExpiresAt: invite.ExpiresAt}, nil
}
