package http

import (
	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	accountRepo     account.Repository
	sessionRepo     account.SessionRepository
	profileRepo     profile.Repository
	academyRepo     academy.Repository
	checkinRepo     checkin.Repository
	competitionRepo competition.Repository
	participantRepo competition.ParticipantRepository
	reviewRepo      review.Repository
	inviteRepo      referral.InviteRepository
	restRepo        *repository.RestRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		accountRepo:     repository.NewAccountRepository(db),
		sessionRepo:     repository.NewAuthSessionRepository(db),
		profileRepo:     repository.NewProfileRepository(db),
		academyRepo:     repository.NewAcademyRepository(db),
		checkinRepo:     repository.NewCheckinRepository(db),
		competitionRepo: repository.NewCompetitionRepository(db),
		participantRepo: repository.NewParticipantRepository(db),
		reviewRepo:      repository.NewReviewRepository(db),
		inviteRepo:      repository.NewFamilyInviteRepository(db),
		restRepo:        repository.NewRestRepository(db),
	}
}
