package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/mapper"
)

type AcademyRepository struct {
	db *gorm.DB
}

func NewAcademyRepository(db *gorm.DB) *AcademyRepository {
	return &AcademyRepository{db: db}
}

func (r *AcademyRepository) Create(ctx context.Context, a *academy.Academy) error {
	model := mappers.AcademyToModel(a)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create academy: %w", err)
	}
	a.CreatedAt = model.CreatedAt
	return nil
}

func (r *AcademyRepository) Update(ctx context.Context, a *academy.Academy) error {
	model := mappers.AcademyToModel(a)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AcademyModel{}).
		Where("id = ?", a.ID).
		Select("name", "address", "latitude", "longitude", "radius_meters", "owner_id", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update academy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return academy.ErrAcademyNotFound
	}
	return nil
}

func (r *AcademyRepository) GetByID(ctx context.Context, id string) (*academy.Academy, error) {
	var model models.AcademyModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, academy.ErrAcademyNotFound
		}
		return nil, fmt.Errorf("failed to get academy: %w", err)
	}
	return mappers.AcademyToEntity(&model), nil
}

func (r *AcademyRepository) List(ctx context.Context, limit, offset int) ([]*academy.Academy, error) {
	var rows []*models.AcademyModel
	if err := db.GetTxFromContext(ctx, r.db).
		Order("name ASC").
		Scopes(db.Paginate(limit, offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list academies: %w", err)
	}
	return mapper.Rows(rows, mappers.AcademyToEntity), nil
}

func (r *AcademyRepository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []models.AcademyModel
	if err := db.GetTxFromContext(ctx, r.db).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load academy names: %w", err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
