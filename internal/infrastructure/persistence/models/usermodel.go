package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

// UserModel holds the credentials of an account. Public data lives in
// ProfileModel under the same ID.
type UserModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	Email            string `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash     string `gorm:"not null;size:255"`
	Role             string `gorm:"not null;size:20;default:member"`
	EmailConfirmedAt *time.Time
	LastSignInAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
