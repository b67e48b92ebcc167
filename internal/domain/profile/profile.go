// Package profile holds user profiles, roles and the onboarding progression.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

var ErrProfileNotFound = errors.New("profile not found")

// Roles.
const (
	RoleMember     = "member"
	RoleOwner      = "owner"
	RoleSuperadmin = "superadmin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleMember || r == RoleOwner || r == RoleSuperadmin
}

// Profile is the public data of a user.
type Profile struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	FullName       string         `json:"full_name,omitempty"`
	AvatarURL      string         `json:"avatar_url,omitempty"`
	Role           string         `json:"role"`
	OnboardingStep Step           `json:"onboarding_step"`
	Goals          datatypes.JSON `json:"goals,omitempty"`
	FamilyOwnerID  *string        `json:"family_owner_id,omitempty"`
	ReferralCode   *string        `json:"referral_code,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Step is an onboarding step.
type Step string

const (
	StepProfile Step = "profile"
	StepGoals   Step = "goals"
	StepAcademy Step = "academy"
	StepDone    Step = "done"
)

var stepOrder = []Step{StepProfile, StepGoals, StepAcademy, StepDone}

func ParseStep(s string) (Step, error) {
	for _, st := range stepOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid onboarding step: %q", s)
}

// Next returns the step after s; done is final.
func (s Step) Next() Step {
	for i, st := range stepOrder {
		if st == s && i+1 < len(stepOrder) {
			return stepOrder[i+1]
		}
	}
	return StepDone
}

func (s Step) Completed() bool { return s == StepDone }

// Advance moves the profile past completed when it is the current step.
// Completing any other step leaves the profile unchanged.
func (p *Profile) Advance(completed Step) bool {
	if p.OnboardingStep == "" {
		p.OnboardingStep = StepProfile
	}
	if completed != p.OnboardingStep || p.OnboardingStep.Completed() {
		return false
	}
	p.OnboardingStep = p.OnboardingStep.Next()
	return true
}

// OnboardingResult is the wire result of advance_user_onboarding.
type OnboardingResult struct {
	Step      Step `json:"step"`
	Completed bool `json:"completed"`
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByReferralCode(ctx context.Context, code string) (*Profile, error)
	CountFamilyMembers(ctx context.Context, ownerID string) (int64, error)
}
