package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	"github.com/fitpass-app/fitpass/internal/shared/mapper"
)

type CheckinMapper interface {
	ToEntity(model *models.CheckinModel) (*checkin.Checkin, error)
	ToModel(entity *checkin.Checkin) (*models.CheckinModel, error)
	ToEntities(models []*models.CheckinModel) ([]*checkin.Checkin, error)
}

type CheckinMapperImpl struct{}

func NewCheckinMapper() CheckinMapper {
	return &CheckinMapperImpl{}
}

func (m *CheckinMapperImpl) ToEntity(model *models.CheckinModel) (*checkin.Checkin, error) {
	if model == nil {
		return nil, nil
	}

	var (
		position *checkin.Coordinates
		distance *float64
	)
	if len(model.Details) > 0 && string(model.Details) != "null" {
		var details models.CheckinDetails
		if err := json.Unmarshal(model.Details, &details); err != nil {
			return nil, fmt.Errorf("failed to decode check-in details: %w", err)
		}
		position = &checkin.Coordinates{Latitude: details.Latitude, Longitude: details.Longitude}
		d := details.DistanceMeters
		distance = &d
	}

	entity, err := checkin.ReconstructCheckin(
		model.ID,
		model.UserID,
		model.AcademyID,
		checkin.Status(model.Status),
		position,
		distance,
		model.ValidatedAt,
		model.ExpiredAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct check-in entity: %w", err)
	}
	return entity, nil
}

func (m *CheckinMapperImpl) ToModel(entity *checkin.Checkin) (*models.CheckinModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.CheckinModel{
		ID:          entity.ID(),
		UserID:      entity.UserID(),
		AcademyID:   entity.AcademyID(),
		Status:      string(entity.Status()),
		ValidatedAt: entity.ValidatedAt(),
		ExpiredAt:   entity.ExpiredAt(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}

	if pos := entity.Position(); pos != nil {
		details := models.CheckinDetails{Latitude: pos.Latitude, Longitude: pos.Longitude}
		if d := entity.DistanceMeters(); d != nil {
			details.DistanceMeters = *d
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode check-in details: %w", err)
		}
		model.Details = datatypes.JSON(raw)
	}
	return model, nil
}

func (m *CheckinMapperImpl) ToEntities(items []*models.CheckinModel) ([]*checkin.Checkin, error) {
	return mapper.TryRows(items, m.ToEntity, func(model *models.CheckinModel) string {
		return model.ID
	})
}
