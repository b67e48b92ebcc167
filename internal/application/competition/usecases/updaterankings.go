package usecases

import (
	"context"
	stderrors "errors"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type UpdateCompetitionRankingsCommand struct {
	CompetitionID string
}

// UpdateCompetitionRankingsUseCase recomputes every participant's score and
// rank from validated check-ins inside the competition window.
type UpdateCompetitionRankingsUseCase struct {
	competitions competition.Repository
	participants competition.ParticipantRepository
	checkins     CheckinCounter
	metrics      Metrics
	logger       logger.Interface
}

func NewUpdateCompetitionRankingsUseCase(
	competitions competition.Repository,
	participants competition.ParticipantRepository,
	checkins CheckinCounter,
	metrics Metrics,
	logger logger.Interface,
) *UpdateCompetitionRankingsUseCase {
	return &UpdateCompetitionRankingsUseCase{
		competitions: competitions,
		participants: participants,
		checkins:     checkins,
		metrics:      metrics,
		logger:       logger,
	}
}

func (uc *UpdateCompetitionRankingsUseCase) Execute(ctx context.Context, cmd UpdateCompetitionRankingsCommand) (*RankingResult, error) {
	uc.logger.Infow("executing update competition rankings use case", "competition_id", cmd.CompetitionID)

	if cmd.CompetitionID == "" {
		return nil, errors.NewValidationError("p_competition_id is required")
	}

	comp, err := uc.competitions.GetByID(ctx, cmd.CompetitionID)
	if err != nil {
		if stderrors.Is(err, competition.ErrCompetitionNotFound) {
			return nil, errors.NewNotFoundError("competition not found", cmd.CompetitionID)
		}
		return nil, err
	}
	return uc.rank(ctx, comp)
}

func (uc *UpdateCompetitionRankingsUseCase) rank(ctx context.Context, comp *competition.Competition) (*RankingResult, error) {
	participants, err := uc.participants.ListByCompetition(ctx, comp.ID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return &RankingResult{}, nil
	}

	userIDs := make([]string, len(participants))
	for i, p := range participants {
		userIDs[i] = p.UserID
	}
	filter := checkin.CountFilter{UserIDs: userIDs, From: comp.StartsAt, To: comp.EndsAt}
	if comp.AcademyID != nil {
		filter.AcademyID = *comp.AcademyID
	}

	scores, err := uc.checkins.CountValidated(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to count validated check-ins", "competition_id", comp.ID, "error", err)
		return nil, err
	}

	standings := competition.Rank(scores)
	if err := uc.participants.SaveStandings(ctx, comp.ID, standings); err != nil {
		uc.logger.Errorw("failed to save standings", "competition_id", comp.ID, "error", err)
		return nil, err
	}

	uc.metrics.RecordStandingsUpdated(len(standings))
	uc.logger.Infow("competition rankings updated", "competition_id", comp.ID, "participants", len(standings))
	return &RankingResult{Updated: len(standings)}, nil
}
