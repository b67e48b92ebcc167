package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/mapper"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert inserts the review or replaces the caller's previous one for the
// same academy. r receives the stored ID and timestamps.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) error {
	model := mappers.ReviewToModel(rv)
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "academy_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "body", "body_html", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	var stored models.ReviewModel
	if err := tx.Where("user_id = ? AND academy_id = ?", rv.UserID, rv.AcademyID).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload review: %w", err)
	}
	*rv = *mappers.ReviewToEntity(&stored)
	return nil
}

func (r *ReviewRepository) ListByAcademy(ctx context.Context, academyID string, limit, offset int) ([]*review.Review, error) {
	var rows []*models.ReviewModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("academy_id = ?", academyID).
		Order("created_at DESC").
		Scopes(db.Paginate(limit, offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return mapper.Rows(rows, mappers.ReviewToEntity), nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	var model models.ReviewModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return mappers.ReviewToEntity(&model), nil
}
