package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/mappers"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/mapper"
)

type CompetitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) Create(ctx context.Context, c *competition.Competition) error {
	model := mappers.CompetitionToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id string) (*competition.Competition, error) {
	var model models.CompetitionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, competition.ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return mappers.CompetitionToEntity(&model), nil
}

func (r *CompetitionRepository) List(ctx context.Context, filter competition.Filter) ([]*competition.Competition, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.CompetitionModel{})
	if filter.ActiveAt != nil {
		query = query.Where("starts_at <= ? AND ends_at > ?", *filter.ActiveAt, *filter.ActiveAt)
	}

	var rows []*models.CompetitionModel
	if err := query.Order("starts_at DESC").
		Scopes(db.Paginate(filter.Limit, filter.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return mapper.Rows(rows, mappers.CompetitionToEntity), nil
}

func (r *CompetitionRepository) ListActive(ctx context.Context, now time.Time) ([]*competition.Competition, error) {
	return r.List(ctx, competition.Filter{ActiveAt: &now, Limit: maxActiveCompetitions})
}

// maxActiveCompetitions bounds the ranking refresh batch.
const maxActiveCompetitions = 500

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Join(ctx context.Context, p *competition.Participant) error {
	model := &models.CompetitionParticipantModel{
		CompetitionID: p.CompetitionID,
		UserID:        p.UserID,
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return competition.ErrAlreadyJoined
		}
		return fmt.Errorf("failed to join competition: %w", err)
	}
	p.JoinedAt, p.UpdatedAt = model.JoinedAt, model.UpdatedAt
	return nil
}

func (r *ParticipantRepository) ListByCompetition(ctx context.Context, competitionID string) ([]*competition.Participant, error) {
	var rows []*models.CompetitionParticipantModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("competition_id = ?", competitionID).
		Order("CASE WHEN standing IS NULL THEN 1 ELSE 0 END, standing ASC, score DESC, user_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return mapper.Rows(rows, mappers.ParticipantToEntity), nil
}

func (r *ParticipantRepository) ListByUser(ctx context.Context, userID string) ([]*competition.Participant, error) {
	var rows []*models.CompetitionParticipantModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return mapper.Rows(rows, mappers.ParticipantToEntity), nil
}

func (r *ParticipantRepository) SaveStandings(ctx context.Context, competitionID string, standings []competition.Standing) error {
	now := time.Now().UTC()
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for _, s := range standings {
			if err := tx.Model(&models.CompetitionParticipantModel{}).
				Where("competition_id = ? AND user_id = ?", competitionID, s.UserID).
				Updates(map[string]any{"score": s.Score, "standing": s.Rank, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("failed to save standing of %s: %w", s.UserID, err)
			}
		}
		return nil
	})
}
