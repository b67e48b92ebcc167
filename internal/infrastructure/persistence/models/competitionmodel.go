package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

type CompetitionModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null;size:200"`
	Description string    `gorm:"type:text"`
	AcademyID   *string   `gorm:"size:36;index"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null;index"`
	CreatedBy   string    `gorm:"not null;size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CompetitionModel) TableName() string {
	return constants.TableCompetitions
}

type CompetitionParticipantModel struct {
	CompetitionID string    `gorm:"primaryKey;size:36"`
	UserID        string    `gorm:"primaryKey;size:36;index"`
	Score         int64     `gorm:"not null;default:0"`
	Rank          *int      `gorm:"column:standing"`
	JoinedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time
}

func (CompetitionParticipantModel) TableName() string {
	return constants.TableCompetitionParticipants
}
