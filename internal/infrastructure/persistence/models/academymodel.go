package models

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

type AcademyModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Name         string  `gorm:"not null;size:200;index"`
	Address      string  `gorm:"size:500"`
	Latitude     float64 `gorm:"not null"`
	Longitude    float64 `gorm:"not null"`
	RadiusMeters float64 `gorm:"not null;default:0"`
	OwnerID      string  `gorm:"size:36;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AcademyModel) TableName() string {
	return constants.TableAcademies
}
