package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// PendingInvites hands out an invite token remembered before sign-in.
type PendingInvites interface {
	TakePendingInvite() (string, bool)
	SetPendingInvite(token string)
}

// ErrNoInviteToken is returned when no token was given or remembered.
var ErrNoInviteToken = errors.New("no invite token")

// Invite is the result of create_family_invite.
type Invite struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Referrals struct {
	client  *supabase.Client
	pending PendingInvites
	logger  logger.Interface
}

func NewReferrals(client *supabase.Client, pending PendingInvites, log logger.Interface) *Referrals {
	return &Referrals{client: client, pending: pending, logger: log}
}

func (s *Referrals) GetOrCreateCode(ctx context.Context, sess *session.Session) (string, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return "", err
	}
	var out struct {
		Code string `json:"code"`
	}
	if err := c.RPC(ctx, RPCReferralCode, map[string]string{"p_user_id": sess.UserID()}, &out); err != nil {
		return "", fmt.Errorf("referral code: %w", err)
	}
	return out.Code, nil
}

func (s *Referrals) CreateFamilyInvite(ctx context.Context, sess *session.Session, email string) (Invite, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return Invite{}, referral.ErrInviteEmailTarget
	}
	c, err := as(s.client, sess)
	if err != nil {
		return Invite{}, err
	}
	var out Invite
	params := map[string]string{"p_owner_id": sess.UserID(), "p_email": email}
	if err := c.RPC(ctx, RPCCreateInvite, params, &out); err != nil {
		return Invite{}, fmt.Errorf("create family invite: %w", err)
	}
	return out, nil
}

// AcceptFamilyInvite accepts token, or the remembered pending invite when
// token is empty. A pending token is put back if the call does not complete.
func (s *Referrals) AcceptFamilyInvite(ctx context.Context, sess *session.Session, token string) (referral.Result, error) {
	fromPending := false
	if token == "" && s.pending != nil {
		token, fromPending = s.pending.TakePendingInvite()
	}
	if token == "" {
		return referral.Result{}, ErrNoInviteToken
	}
	c, err := as(s.client, sess)
	if err != nil {
		if fromPending {
			s.pending.SetPendingInvite(token)
		}
		return referral.Result{}, err
	}

	var out referral.Result
	params := map[string]string{"p_token": token, "p_user_id": sess.UserID()}
	if err := c.RPC(ctx, RPCAcceptInvite, params, &out); err != nil {
		if fromPending {
			s.pending.SetPendingInvite(token)
		}
		return referral.Result{}, fmt.Errorf("accept family invite: %w", err)
	}
	s.logger.Infow("family invite answered",
		"user_id", sess.UserID(),
		"success", out.Success,
		"message", out.Message,
	)
	return out, nil
}
