package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

type ReviewModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"not null;size:36;uniqueIndex:idx_reviews_user_academy,priority:1"`
	AcademyID string `gorm:"not null;size:36;uniqueIndex:idx_reviews_user_academy,priority:2;index"`
	Rating    int    `gorm:"not null"`
	Body      string `gorm:"type:text"`
	BodyHTML  string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReviewModel) TableName() string {
	return constants.TableReviews
}
