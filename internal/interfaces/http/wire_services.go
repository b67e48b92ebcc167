package http

import (
	"context"

	academyUsecases "github.com/fitpass-app/fitpass/internal/application/academy/usecases"
	authUsecases "github.com/fitpass-app/fitpass/internal/application/auth/usecases"
	checkinUsecases "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionUsecases "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	profileUsecases "github.com/fitpass-app/fitpass/internal/application/profile/usecases"
	referralUsecases "github.com/fitpass-app/fitpass/internal/application/referral/usecases"
	reviewUsecases "github.com/fitpass-app/fitpass/internal/application/review/usecases"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/infrastructure/scheduler"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers"
	restHandlers "github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rest"
	rpcHandlers "github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rpc"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/services/markdown"
)

// authRequestsPerMinute bounds sign-up and token requests per client IP.
const authRequestsPerMinute = 30

func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log
	r := c.repos

	familyPolicy := referralUsecases.FamilyPolicy{
		MaxMembers: cfg.Family.MaxMembers,
		InviteTTL:  cfg.Family.InviteTTL,
	}
	updateRankings := competitionUsecases.NewUpdateCompetitionRankingsUseCase(
		r.competitionRepo, r.participantRepo, r.checkinRepo, c.metrics, log,
	)

	c.ucs = &allUseCases{
		signUpUC:       authUsecases.NewSignUpUseCase(r.accountRepo, r.sessionRepo, r.profileRepo, c.hasher, c.jwtSvc, c.txManager, log),
		signInUC:       authUsecases.NewSignInUseCase(r.accountRepo, r.sessionRepo, c.hasher, c.jwtSvc, log),
		refreshTokenUC: authUsecases.NewRefreshTokenUseCase(r.accountRepo, r.sessionRepo, c.jwtSvc, c.txManager, log),
		signOutUC:      authUsecases.NewSignOutUseCase(r.sessionRepo, log),
		getUserUC:      authUsecases.NewGetUserUseCase(r.accountRepo, log),
		purgeSessionUC: authUsecases.NewPurgeExpiredSessionsUseCase(r.sessionRepo, log),

		reserveCheckinUC: checkinUsecases.NewReserveCheckinUseCase(r.checkinRepo, r.academyRepo, c.metrics, log),
		validateCheckinUC: checkinUsecases.NewValidateCheckinUseCase(
			r.checkinRepo, r.academyRepo, c.txManager, c.limiter, c.metrics,
			checkinUsecases.ValidateCheckinConfig{
				DefaultRadiusMeters: cfg.Checkin.DefaultRadiusMeters,
				ValidationsPerHour:  cfg.Checkin.ValidationsPerHour,
			},
			log,
		),
		expireCheckinsUC: checkinUsecases.NewExpireStaleCheckinsUseCase(r.checkinRepo, cfg.Checkin.PendingTTL, c.metrics, log),

		createCompetitionUC: competitionUsecases.NewCreateCompetitionUseCase(r.competitionRepo, r.academyRepo, log),
		joinCompetitionUC:   competitionUsecases.NewJoinCompetitionUseCase(r.competitionRepo, r.participantRepo, log),
		updateRankingsUC:    updateRankings,
		refreshRankingsUC:   competitionUsecases.NewRefreshActiveRankingsUseCase(updateRankings, log),

		createAcademyUC: academyUsecases.NewCreateAcademyUseCase(r.academyRepo, log),
		updateAcademyUC: academyUsecases.NewUpdateAcademyUseCase(r.academyRepo, log),

		updateProfileUC:     profileUsecases.NewUpdateProfileUseCase(r.profileRepo, log),
		advanceOnboardingUC: profileUsecases.NewAdvanceOnboardingUseCase(r.profileRepo, c.txManager, log),

		referralCodeUC: referralUsecases.NewGetOrCreateReferralCodeUseCase(r.profileRepo, log),
		createInviteUC: referralUsecases.NewCreateFamilyInviteUseCase(r.profileRepo, r.inviteRepo, c.mailer, familyPolicy, log),
		acceptInviteUC: referralUsecases.NewAcceptFamilyInviteUseCase(r.profileRepo, r.inviteRepo, c.txManager, familyPolicy, log),

		submitReviewUC: reviewUsecases.NewSubmitReviewUseCase(r.reviewRepo, r.academyRepo, markdown.NewReviewRenderer(), log),
	}
}

func (c *Container) initHandlers() {
	log := c.log
	u := c.ucs

	c.hdlrs = &allHandlers{
		authHandler: handlers.NewAuthHandler(u.signUpUC, u.signInUC, u.refreshTokenUC, u.signOutUC, u.getUserUC, log),
		restHandler: restHandlers.NewHandler(c.repos.restRepo, restHandlers.UseCases{
			ReserveCheckin:    u.reserveCheckinUC,
			JoinCompetition:   u.joinCompetitionUC,
			CreateCompetition: u.createCompetitionUC,
			SubmitReview:      u.submitReviewUC,
			UpdateProfile:     u.updateProfileUC,
			CreateAcademy:     u.createAcademyUC,
			UpdateAcademy:     u.updateAcademyUC,
		}, log),
		rpcHandler: rpcHandlers.NewHandler(rpcHandlers.UseCases{
			ValidateCheckin:   u.validateCheckinUC,
			UpdateRankings:    u.updateRankingsUC,
			ReferralCode:      u.referralCodeUC,
			CreateInvite:      u.createInviteUC,
			AcceptInvite:      u.acceptInviteUC,
			AdvanceOnboarding: u.advanceOnboardingUC,
		}, log),
		storageHandler: handlers.NewStorageHandler(c.objectStore, log),
		healthHandler:  handlers.NewHealthHandler(c.healthChecks()),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.cfg.Auth.AnonKey, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.permissionService)
	c.authRateLimiter = middleware.NewRateLimiter(c.limiter, "auth", ratelimit.RateLimitConfig{
		RequestsPerMinute: authRequestsPerMinute,
	}, log)
}

func (c *Container) initScheduler() error {
	c.schedulerManager = scheduler.NewSchedulerManager(c.log.Named("scheduler")).WithRecorder(c.metrics)
	return RegisterJobs(c.schedulerManager, c.cfg.Checkin.ExpirySchedule, c.cfg.Competition.RankingSchedule, Jobs{
		ExpireCheckins: c.ucs.expireCheckinsUC,
		RefreshRanks:   c.ucs.refreshRankingsUC,
		PurgeSessions:  c.ucs.purgeSessionUC,
	})
}

// Jobs are the periodic backend jobs.
type Jobs struct {
	ExpireCheckins scheduler.BatchJob
	RefreshRanks   scheduler.BatchJob
	PurgeSessions  scheduler.BatchJob
}

// sessionPurgeSchedule runs the refresh session cleanup.
const sessionPurgeSchedule = "@every 1h"

// RegisterJobs schedules jobs on m. The worker and the server share it.
func RegisterJobs(m *scheduler.SchedulerManager, expirySpec, rankingSpec string, jobs Jobs) error {
	if err := m.RegisterCheckinExpiry(expirySpec, jobs.ExpireCheckins); err != nil {
		return err
	}
	if err := m.RegisterRankingRefresh(rankingSpec, jobs.RefreshRanks); err != nil {
		return err
	}
	return m.Register("session-purge", sessionPurgeSchedule, jobs.PurgeSessions)
}

func (c *Container) healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{"database": gormPinger{c}}
	if c.redis != nil {
		checks["redis"] = redisPinger{c}
	}
	return checks
}

type gormPinger struct{ c *Container }

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type redisPinger struct{ c *Container }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.c.redis.Ping(ctx).Err()
}
