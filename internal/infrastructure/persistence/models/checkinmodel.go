package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
)

// CheckinModel stores check-ins. The partial unique index allows one pending
// row per user; databases without partial indexes get it from the SQL scripts.
type CheckinModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"not null;size:36;index:idx_checkins_user_created,priority:1;uniqueIndex:idx_checkins_one_pending,where:status = 'pending'"`
	AcademyID string `gorm:"not null;size:36;index"`
	Status    string `gorm:"not null;size:20;index"`
	// last submitted position and distance
	Details     datatypes.JSON
	ValidatedAt *time.Time `gorm:"index"`
	ExpiredAt   *time.Time
	CreatedAt   time.Time `gorm:"index:idx_checkins_user_created,priority:2"`
	UpdatedAt   time.Time
}

func (CheckinModel) TableName() string {
	return constants.TableCheckins
}

// CheckinDetails is the JSON shape of CheckinModel.Details.
type CheckinDetails struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distance_meters"`
}

// DecodedDetails parses Details; ok is false when it is empty or malformed.
func (m *CheckinModel) DecodedDetails() (CheckinDetails, bool) {
	var d CheckinDetails
	if len(m.Details) == 0 || string(m.Details) == "null" {
		return d, false
	}
	if err := json.Unmarshal(m.Details, &d); err != nil {
		return d, false
	}
	return d, true
}
