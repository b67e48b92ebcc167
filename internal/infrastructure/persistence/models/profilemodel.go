package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

type ProfileModel struct {
	ID             string `gorm:"primaryKey;size:36"`
	Email          string `gorm:"uniqueIndex;not null;size:255"`
	FullName       string `gorm:"size:100"`
	AvatarURL      string `gorm:"size:500"`
	Role           string `gorm:"not null;size:20;default:member;index"`
	OnboardingStep string `gorm:"not null;size:20;default:profile"`
	Goals          datatypes.JSON
	FamilyOwnerID  *string `gorm:"size:36;index"`
	ReferralCode   *string `gorm:"uniqueIndex;size:16"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProfileModel) TableName() string {
	return constants.TableProfiles
}
