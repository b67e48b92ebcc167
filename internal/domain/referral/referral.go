// Package referral covers referral codes and family plan invites.
package referral

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	// MaxFamilyMembers excludes the plan owner.
	MaxFamilyMembers = 4
	InviteTTL        = 7 * 24 * time.Hour
)

// Invite rejection reasons returned by accept_family_invite.
var (
	ErrInviteNotFound    = errors.New("Invite not found")
	ErrInviteExpired     = errors.New("Invite has expired")
	ErrInviteUsed        = errors.New("Invite has already been used")
	ErrSelfInvite        = errors.New("You cannot accept your own invite")
	ErrAlreadyFamily     = errors.New("You already belong to a family plan")
	ErrFamilyFull        = errors.New("This family plan is full")
	ErrInviteEmailTarget = errors.New("Invite email is invalid")
)

// FamilyInvite lets a plan owner add a member.
type FamilyInvite struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedBy *string    `json:"accepted_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewFamilyInvite creates an invite valid for ttl from now.
func NewFamilyInvite(id, ownerID, email, token string, now time.Time, ttl time.Duration) (*FamilyInvite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, ErrInviteEmailTarget
	}
	return &FamilyInvite{
		ID:        id,
		OwnerID:   ownerID,
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// CheckAcceptable returns the reason userID cannot accept the invite at now.
func (i *FamilyInvite) CheckAcceptable(userID string, now time.Time) error {
	switch {
	case i.AcceptedBy != nil:
		return ErrInviteUsed
	case !now.Before(i.ExpiresAt):
		return ErrInviteExpired
	case i.OwnerID == userID:
		return ErrSelfInvite
	}
	return nil
}

// Accept marks the invite used by userID.
func (i *FamilyInvite) Accept(userID string, now time.Time) error {
	if err := i.CheckAcceptable(userID, now); err != nil {
		return err
	}
	i.AcceptedBy = &userID
	i.AcceptedAt = &now
	return nil
}

// Result is the wire result of accept_family_invite.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type InviteRepository interface {
	Create(ctx context.Context, i *FamilyInvite) error
	GetByToken(ctx context.Context, token string) (*FamilyInvite, error)
	Update(ctx context.Context, i *FamilyInvite) error
}
