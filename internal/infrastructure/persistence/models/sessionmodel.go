package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

// AuthSessionModel is one refresh-token lineage. The hash is replaced on each
// refresh so a refresh token works once.
type AuthSessionModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           string    `gorm:"not null;index;size:36"`
	RefreshTokenHash string    `gorm:"uniqueIndex;not null;size:64"`
	UserAgent        string    `gorm:"size:512"`
	ExpiresAt        time.Time `gorm:"not null;index"`
	RevokedAt        *time.Time
	LastActivityAt   time.Time `gorm:"not null"`
	CreatedAt        time.Time
}

func (AuthSessionModel) TableName() string {
	return constants.TableAuthSessions
}
