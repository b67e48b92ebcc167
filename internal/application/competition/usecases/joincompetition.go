package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type JoinCompetitionCommand struct {
	CompetitionID string
	UserID        string
}

type JoinCompetitionUseCase struct {
	competitions competition.Repository
	participants competition.ParticipantRepository
	logger       logger.Interface
	now          func() time.Time
}

func NewJoinCompetitionUseCase(
	competitions competition.Repository,
	participants competition.ParticipantRepository,
	logger logger.Interface,
) *JoinCompetitionUseCase {
	return &JoinCompetitionUseCase{
		competitions: competitions,
		participants: participants,
		logger:       logger,
		now:          biztime.NowUTC,
	}
}

func (uc *JoinCompetitionUseCase) Execute(ctx context.Context, cmd JoinCompetitionCommand) (*competition.Participant, error) {
	uc.logger.Infow("executing join competition use case", "competition_id", cmd.CompetitionID, "user_id", cmd.UserID)

	if cmd.CompetitionID == "" || cmd.UserID == "" {
		return nil, errors.NewValidationError("competition_id and user_id are required")
	}

	comp, err := uc.competitions.GetByID(ctx, cmd.CompetitionID)
	if err != nil {
		if stderrors.Is(err, competition.ErrCompetitionNotFound) {
			return nil, errors.NewValidationError("unknown competition", cmd.CompetitionID)
		}
		return nil, err
	}
	if !comp.CanJoin(uc.now()) {
		return nil, errors.NewValidationError(competition.ErrCompetitionClosed.Error())
	}

	p := &competition.Participant{CompetitionID: comp.ID, UserID: cmd.UserID}
	if err := uc.participants.Join(ctx, p); err != nil {
		if stderrors.Is(err, competition.ErrAlreadyJoined) {
			return nil, errors.NewConflictError(err.Error()).WithPGCode(errors.CodeUniqueViolation)
		}
		return nil, err
	}

	uc.logger.Infow("competition joined", "competition_id", comp.ID, "user_id", cmd.UserID)
	return p, nil
}
