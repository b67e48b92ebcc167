package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type CreateAcademyCommand struct {
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	// OwnerID defaults to the caller; only superadmins may set another owner.
	OwnerID    string
	CallerID   string
	CallerRole string
}

type CreateAcademyUseCase struct {
	academies academy.Repository
	logger    logger.Interface
}

func NewCreateAcademyUseCase(academies academy.Repository, logger logger.Interface) *CreateAcademyUseCase {
	return &CreateAcademyUseCase{academies: academies, logger: logger}
}

func (uc *CreateAcademyUseCase) Execute(ctx context.Context, cmd CreateAcademyCommand) (*academy.Academy, error) {
	uc.logger.Infow("executing create academy use case", "caller_id", cmd.CallerID)

	ownerID := cmd.OwnerID
	if ownerID == "" {
		ownerID = cmd.CallerID
	}
	if err := permission.ActingFor(cmd.CallerID, cmd.CallerRole, ownerID); err != nil {
		return nil, err
	}

	a := &academy.Academy{
		ID:           id.NewUUID(),
		Name:         strings.TrimSpace(cmd.Name),
		Address:      strings.TrimSpace(cmd.Address),
		Latitude:     cmd.Latitude,
		Longitude:    cmd.Longitude,
		RadiusMeters: cmd.RadiusMeters,
		OwnerID:      ownerID,
	}
	if err := a.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.academies.Create(ctx, a); err != nil {
		uc.logger.Errorw("failed to create academy", "error", err)
		return nil, errors.NewInternalError("failed to create academy")
	}

	uc.logger.Infow("academy created", "academy_id", a.ID, "owner_id", ownerID)
	return a, nil
}

// UpdateAcademyCommand changes the set fields of an academy.
type UpdateAcademyCommand struct {
	ID           string
	Name         *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
	CallerID     string
	CallerRole   string
}

type UpdateAcademyUseCase struct {
	academies academy.Repository
	logger    logger.Interface
}

func NewUpdateAcademyUseCase(academies academy.Repository, logger logger.Interface) *UpdateAcademyUseCase {
	return &UpdateAcademyUseCase{academies: academies, logger: logger}
}

func (uc *UpdateAcademyUseCase) Execute(ctx context.Context, cmd UpdateAcademyCommand) (*academy.Academy, error) {
	uc.logger.Infow("executing update academy use case", "academy_id", cmd.ID, "caller_id", cmd.CallerID)

	a, err := uc.academies.GetByID(ctx, cmd.ID)
	if err != nil {
		if stderrors.Is(err, academy.ErrAcademyNotFound) {
			return nil, errors.NewNotFoundError("academy not found", cmd.ID)
		}
		return nil, errors.NewInternalError("failed to get academy")
	}
	if a.OwnerID != cmd.CallerID && cmd.CallerRole != profile.RoleSuperadmin {
		return nil, errors.NewForbiddenError("academy belongs to another owner")
	}

	if cmd.Name != nil {
		a.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Address != nil {
		a.Address = strings.TrimSpace(*cmd.Address)
	}
	if cmd.Latitude != nil {
		a.Latitude = *cmd.Latitude
	}
	if cmd.Longitude != nil {
		a.Longitude = *cmd.Longitude
	}
	if cmd.RadiusMeters != nil {
		a.RadiusMeters = *cmd.RadiusMeters
	}
	if err := a.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.academies.Update(ctx, a); err != nil {
		uc.logger.Errorw("failed to update academy", "academy_id", a.ID, "error", err)
		return nil, errors.NewInternalError("failed to update academy")
	}
	return a, nil
}
