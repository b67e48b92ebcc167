package http

import (
	academyUsecases "github.com/fitpass-app/fitpass/internal/application/academy/usecases"
	authUsecases "github.com/fitpass-app/fitpass/internal/application/auth/usecases"
	checkinUsecases "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionUsecases "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	profileUsecases "github.com/fitpass-app/fitpass/internal/application/profile/usecases"
	referralUsecases "github.com/fitpass-app/fitpass/internal/application/referral/usecases"
	reviewUsecases "github.com/fitpass-app/fitpass/internal/application/review/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Auth
	signUpUC       *authUsecases.SignUpUseCase
	signInUC       *authUsecases.SignInUseCase
	refreshTokenUC *authUsecases.RefreshTokenUseCase
	signOutUC      *authUsecases.SignOutUseCase
	getUserUC      *authUsecases.GetUserUseCase
	purgeSessionUC *authUsecases.PurgeExpiredSessionsUseCase

	// Check-ins
	reserveCheckinUC  *checkinUsecases.ReserveCheckinUseCase
	validateCheckinUC *checkinUsecases.ValidateCheckinUseCase
	expireCheckinsUC  *checkinUsecases.ExpireStaleCheckinsUseCase

	// Competitions
	createCompetitionUC *competitionUsecases.CreateCompetitionUseCase
	joinCompetitionUC   *competitionUsecases.JoinCompetitionUseCase
	updateRankingsUC    *competitionUsecases.UpdateCompetitionRankingsUseCase
	refreshRankingsUC   *competitionUsecases.RefreshActiveRankingsUseCase

	// Academies
	createAcademyUC *academyUsecases.CreateAcademyUseCase
	updateAcademyUC *academyUsecases.UpdateAcademyUseCase

	// Profiles
	updateProfileUC     *profileUsecases.UpdateProfileUseCase
	advanceOnboardingUC *profileUsecases.AdvanceOnboardingUseCase

	// Referrals
	referralCodeUC *referralUsecases.GetOrCreateReferralCodeUseCase
	createInviteUC *referralUsecases.CreateFamilyInviteUseCase
	acceptInviteUC *referralUsecases.AcceptFamilyInviteUseCase

	// Reviews
	submitReviewUC *reviewUsecases.SubmitReviewUseCase
}
