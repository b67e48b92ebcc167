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
)

// AuthSessionRepository persists refresh-token sessions.
type AuthSessionRepository struct {
	db *gorm.DB
}

func NewAuthSessionRepository(db *gorm.DB) *AuthSessionRepository {
	return &AuthSessionRepository{db: db}
}

func (r *AuthSessionRepository) Create(ctx context.Context, s *account.Session) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(toSessionModel(s)).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *AuthSessionRepository) GetByID(ctx context.Context, id string) (*account.Session, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AuthSessionRepository) GetByRefreshHash(ctx context.Context, hash string) (*account.Session, error) {
	return r.first(ctx, "refresh_token_hash = ?", hash)
}

func (r *AuthSessionRepository) first(ctx context.Context, query string, arg any) (*account.Session, error) {
	var m models.AuthSessionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := db.ForUpdateIfTx(ctx, tx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &account.Session{
		ID:               m.ID,
		UserID:           m.UserID,
		RefreshTokenHash: m.RefreshTokenHash,
		UserAgent:        m.UserAgent,
		ExpiresAt:        m.ExpiresAt,
		RevokedAt:        m.RevokedAt,
		LastActivityAt:   m.LastActivityAt,
		CreatedAt:        m.CreatedAt,
	}, nil
}

func (r *AuthSessionRepository) Update(ctx context.Context, s *account.Session) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AuthSessionModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"refresh_token_hash": s.RefreshTokenHash,
			"expires_at":         s.ExpiresAt,
			"revoked_at":         s.RevokedAt,
			"last_activity_at":   s.LastActivityAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return account.ErrSessionNotFound
	}
	return nil
}

func (r *AuthSessionRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AuthSessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error; err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func (r *AuthSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("expires_at < ?", before).
		Delete(&models.AuthSessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toSessionModel(s *account.Session) *models.AuthSessionModel {
	return &models.AuthSessionModel{
		ID:               s.ID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		UserAgent:        s.UserAgent,
		ExpiresAt:        s.ExpiresAt,
		RevokedAt:        s.RevokedAt,
		LastActivityAt:   s.LastActivityAt,
		CreatedAt:        s.CreatedAt,
	}
}
