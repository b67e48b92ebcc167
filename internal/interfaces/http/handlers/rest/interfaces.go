package rest

import (
	"context"

	academyuc "github.com/fitpass-app/fitpass/internal/application/academy/usecases"
	checkinuc "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionuc "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	profileuc "github.com/fitpass-app/fitpass/internal/application/profile/usecases"
	reviewuc "github.com/fitpass-app/fitpass/internal/application/review/usecases"
	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/infrastructure/repository"
	"github.com/fitpass-app/fitpass/internal/shared/query"
)

type rowReader interface {
	Select(ctx context.Context, table string, p *query.Params, ownerID string) ([]repository.Row, error)
}

type reserveCheckinUseCase interface {
	Execute(ctx context.Context, cmd checkinuc.ReserveCheckinCommand) (*checkin.Checkin, error)
}

type joinCompetitionUseCase interface {
	Execute(ctx context.Context, cmd competitionuc.JoinCompetitionCommand) (*competition.Participant, error)
}

type createCompetitionUseCase interface {
	Execute(ctx context.Context, cmd competitionuc.CreateCompetitionCommand) (*competition.Competition, error)
}

type submitReviewUseCase interface {
	Execute(ctx context.Context, cmd reviewuc.SubmitReviewCommand) (*review.Review, error)
}

type updateProfileUseCase interface {
	Execute(ctx context.Context, cmd profileuc.UpdateProfileCommand) (*profile.Profile, error)
}

type createAcademyUseCase interface {
	Execute(ctx context.Context, cmd academyuc.CreateAcademyCommand) (*academy.Academy, error)
}

type updateAcademyUseCase interface {
	Execute(ctx context.Context, cmd academyuc.UpdateAcademyCommand) (*academy.Academy, error)
}

// UseCases are the writes reachable through the REST surface.
type UseCases struct {
	ReserveCheckin    reserveCheckinUseCase
	JoinCompetition   joinCompetitionUseCase
	CreateCompetition createCompetitionUseCase
	SubmitReview      submitReviewUseCase
	UpdateProfile     updateProfileUseCase
	CreateAcademy     createAcademyUseCase
	UpdateAcademy     updateAcademyUseCase
}
