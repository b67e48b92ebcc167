package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type CreateCompetitionCommand struct {
	Title       string
	Description string
	AcademyID   *string
	StartsAt    time.Time
	EndsAt      time.Time
	CallerID    string
	CallerRole  string
}

type CreateCompetitionUseCase struct {
	competitions competition.Repository
	academies    AcademyReader
	logger       logger.Interface
}

func NewCreateCompetitionUseCase(
	competitions competition.Repository,
	academies AcademyReader,
	logger logger.Interface,
) *CreateCompetitionUseCase {
	return &CreateCompetitionUseCase{
		competitions: competitions,
		academies:    academies,
		logger:       logger,
	}
}

func (uc *CreateCompetitionUseCase) Execute(ctx context.Context, cmd CreateCompetitionCommand) (*competition.Competition, error) {
	uc.logger.Infow("executing create competition use case", "caller_id", cmd.CallerID)

	if cmd.CallerID == "" {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	var academyID *string
	if cmd.AcademyID != nil && *cmd.AcademyID != "" {
		a, err := uc.academies.GetByID(ctx, *cmd.AcademyID)
		if err != nil {
			if stderrors.Is(err, academy.ErrAcademyNotFound) {
				return nil, errors.NewValidationError("unknown academy", *cmd.AcademyID)
			}
			return nil, errors.NewInternalError("failed to get academy")
		}
		if a.OwnerID != cmd.CallerID && cmd.CallerRole != profile.RoleSuperadmin {
			return nil, errors.NewForbiddenError("academy belongs to another owner")
		}
		academyID = &a.ID
	}

	c := &competition.Competition{
		ID:          id.NewUUID(),
		Title:       strings.TrimSpace(cmd.Title),
		Description: cmd.Description,
		AcademyID:   academyID,
		StartsAt:    cmd.StartsAt.UTC(),
		EndsAt:      cmd.EndsAt.UTC(),
		CreatedBy:   cmd.CallerID,
	}
	if err := c.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.competitions.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to create competition", "error", err)
		return nil, errors.NewInternalError("failed to create competition")
	}

	uc.logger.Infow("competition created", "competition_id", c.ID)
	return c, nil
}
