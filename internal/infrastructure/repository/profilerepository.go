package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	model := mappers.ProfileToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("profile already exists")
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	p.CreatedAt, p.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	model := mappers.ProfileToModel(p)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProfileModel{}).
		Where("id = ?", p.ID).
		Select("full_name", "avatar_url", "role", "onboarding_step", "goals", "family_owner_id", "referral_code", "updated_at").
		Updates(model)
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewConflictError("referral code already in use")
		}
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *ProfileRepository) GetByReferralCode(ctx context.Context, code string) (*profile.Profile, error) {
	return r.first(ctx, "referral_code = ?", code)
}

func (r *ProfileRepository) CountFamilyMembers(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProfileModel{}).
		Where("family_owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count family members: %w", err)
	}
	return count, nil
}

func (r *ProfileRepository) first(ctx context.Context, query string, arg any) (*profile.Profile, error) {
	var model models.ProfileModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := db.ForUpdateIfTx(ctx, tx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return mappers.ProfileToEntity(&model), nil
}
