package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
)

type CheckinRepository struct {
	db     *gorm.DB
	mapper mappers.CheckinMapper
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{
		db:     db,
		mapper: mappers.NewCheckinMapper(),
	}
}

// Create inserts a pending check-in. A second pending row for the same user
// violates idx_checkins_one_pending and yields checkin.ErrPendingExists.
func (r *CheckinRepository) Create(ctx context.Context, c *checkin.Checkin) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return checkin.ErrPendingExists
		}
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

func (r *CheckinRepository) Update(ctx context.Context, c *checkin.Checkin) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.CheckinModel{}).
		Where("id = ?", model.ID).
		Select("status", "details", "validated_at", "expired_at", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update check-in: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return checkin.ErrCheckinNotFound
	}
	return nil
}

func (r *CheckinRepository) GetByID(ctx context.Context, id string) (*checkin.Checkin, error) {
	var model models.CheckinModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := db.ForUpdateIfTx(ctx, tx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkin.ErrCheckinNotFound
		}
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CheckinRepository) FindLatestPending(ctx context.Context, userID string) (*checkin.Checkin, error) {
	var model models.CheckinModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Where("user_id = ? AND status = ?", userID, checkin.StatusPending).
		Order("created_at DESC").
		Limit(1).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending check-in: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CheckinRepository) List(ctx context.Context, filter checkin.Filter) ([]*checkin.Checkin, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.CheckinModel{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.AcademyID != "" {
		query = query.Where("academy_id = ?", filter.AcademyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.OrderDesc {
		query = query.Order("created_at DESC")
	} else {
		query = query.Order("created_at ASC")
	}

	var rows []*models.CheckinModel
	if err := query.Scopes(db.Paginate(filter.Limit, filter.Offset)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return r.mapper.ToEntities(rows)
}

func (r *CheckinRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC()
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.CheckinModel{}).
		Where("status = ? AND created_at < ?", checkin.StatusPending, cutoff).
		Updates(map[string]any{
			"status":     string(checkin.StatusExpired),
			"expired_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire pending check-ins: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *CheckinRepository) CountValidated(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error) {
	counts := make(map[string]int64, len(filter.UserIDs))
	if len(filter.UserIDs) == 0 {
		return counts, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.CheckinModel{}).
		Select("user_id, COUNT(*) AS total").
		Where("status = ?", checkin.StatusValidated).
		Where("user_id IN ?", filter.UserIDs).
		Scopes(db.Between("validated_at", filter.From, filter.To))
	if filter.AcademyID != "" {
		query = query.Where("academy_id = ?", filter.AcademyID)
	}

	var rows []struct {
		UserID string
		Total  int64
	}
	if err := query.Group("user_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count validated check-ins: %w", err)
	}
	for _, userID := range filter.UserIDs {
		counts[userID] = 0
	}
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}
