package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
)

// AccountRepository persists credentials in the users table.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	model := &models.UserModel{
		ID:               a.ID,
		Email:            a.Email,
		PasswordHash:     a.PasswordHash,
		Role:             a.Role,
		EmailConfirmedAt: a.EmailConfirmedAt,
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	a.CreatedAt, a.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(ctx, "email = ?", account.NormalizeEmail(email))
}

func (r *AccountRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error; err != nil {
		return fmt.Errorf("failed to record sign in: %w", err)
	}
	return nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) first(ctx context.Context, query string, arg any) (*account.Account, error) {
	var m models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account.Account{
		ID:               m.ID,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		Role:             m.Role,
		EmailConfirmedAt: m.EmailConfirmedAt,
		LastSignInAt:     m.LastSignInAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}
