package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
)

type FamilyInviteRepository struct {
	db *gorm.DB
}

func NewFamilyInviteRepository(db *gorm.DB) *FamilyInviteRepository {
	return &FamilyInviteRepository{db: db}
}

func (r *FamilyInviteRepository) Create(ctx context.Context, i *referral.FamilyInvite) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.FamilyInviteToModel(i)).Error; err != nil {
		return fmt.Errorf("failed to create family invite: %w", err)
	}
	return nil
}

func (r *FamilyInviteRepository) GetByToken(ctx context.Context, token string) (*referral.FamilyInvite, error) {
	var model models.FamilyInviteModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := db.ForUpdateIfTx(ctx, tx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referral.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get family invite: %w", err)
	}
	return mappers.FamilyInviteToEntity(&model), nil
}

func (r *FamilyInviteRepository) Update(ctx context.Context, i *referral.FamilyInvite) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.FamilyInviteModel{}).
		Where("id = ?", i.ID).
		Updates(map[string]any{"accepted_by": i.AcceptedBy, "accepted_at": i.AcceptedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to update family invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return referral.ErrInviteNotFound
	}
	return nil
}
