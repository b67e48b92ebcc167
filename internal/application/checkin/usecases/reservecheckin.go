package usecases

import (
	"context"
	stderrors "errors"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type ReserveCheckinCommand struct {
	UserID    string
	AcademyID string
}

type ReserveCheckinUseCase struct {
	checkinRepo checkin.Repository
	academies   AcademyReader
	metrics     Metrics
	logger      logger.Interface
}

func NewReserveCheckinUseCase(
	checkinRepo checkin.Repository,
	academies AcademyReader,
	metrics Metrics,
	logger logger.Interface,
) *ReserveCheckinUseCase {
	return &ReserveCheckinUseCase{
		checkinRepo: checkinRepo,
		academies:   academies,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute creates a pending check-in. A second pending check-in for the same
// user is a conflict carrying the unique-violation code.
func (uc *ReserveCheckinUseCase) Execute(ctx context.Context, cmd ReserveCheckinCommand) (*checkin.Checkin, error) {
	uc.logger.Infow("executing reserve check-in use case", "user_id", cmd.UserID, "academy_id", cmd.AcademyID)

	if cmd.UserID == "" {
		return nil, errors.NewValidationError("user_id is required")
	}
	if cmd.AcademyID == "" {
		return nil, errors.NewValidationError("academy_id is required")
	}

	if _, err := uc.academies.GetByID(ctx, cmd.AcademyID); err != nil {
		if stderrors.Is(err, academy.ErrAcademyNotFound) {
			return nil, errors.NewValidationError("unknown academy", cmd.AcademyID)
		}
		uc.logger.Errorw("failed to load academy", "academy_id", cmd.AcademyID, "error", err)
		return nil, err
	}

	c, err := checkin.NewCheckin(id.NewUUID(), cmd.UserID, cmd.AcademyID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.checkinRepo.Create(ctx, c); err != nil {
		if stderrors.Is(err, checkin.ErrPendingExists) {
			uc.metrics.RecordReservation("conflict")
			uc.logger.Infow("pending check-in already exists", "user_id", cmd.UserID)
			return nil, errors.NewConflictError(err.Error()).WithPGCode(errors.CodeUniqueViolation)
		}
		uc.logger.Errorw("failed to create check-in", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	uc.metrics.RecordReservation("created")
	uc.logger.Infow("check-in reserved", "checkin_id", c.ID(), "user_id", cmd.UserID, "academy_id", cmd.AcademyID)
	return c, nil
}
