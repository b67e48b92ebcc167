package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

type FamilyInviteModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	OwnerID    string    `gorm:"not null;size:36;index"`
	Email      string    `gorm:"not null;size:255"`
	Token      string    `gorm:"uniqueIndex;not null;size:64"`
	ExpiresAt  time.Time `gorm:"not null"`
	AcceptedBy *string   `gorm:"size:36"`
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

func (FamilyInviteModel) TableName() string {
	return constants.TableFamilyInvites
}
