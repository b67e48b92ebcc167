package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	authUsecases "github.com/fitpass-app/fitpass/internal/application/auth/usecases"
	checkinUsecases "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionUsecases "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/database"
	"github.com/fitpass-app/fitpass/internal/infrastructure/metrics"
	"github.com/fitpass-app/fitpass/internal/infrastructure/repository"
	"github.com/fitpass-app/fitpass/internal/infrastructure/scheduler"
	httpRouter "github.com/fitpass-app/fitpass/internal/interfaces/http"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// The worker runs the periodic backend jobs without serving HTTP, for
// deployments that scale the API separately.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		logger.Fatal("failed to initialize business timezone", "error", err)
	}

	log := logger.NewLogger()
	log.Infow("starting job worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	db := database.Get()
	m := metrics.New()

	checkinRepo := repository.NewCheckinRepository(db)
	updateRankings := competitionUsecases.NewUpdateCompetitionRankingsUseCase(
		repository.NewCompetitionRepository(db),
		repository.NewParticipantRepository(db),
		checkinRepo,
		m,
		log,
	)

	jobs := scheduler.NewSchedulerManager(log.Named("scheduler")).WithRecorder(m)
	if err := httpRouter.RegisterJobs(jobs, cfg.Checkin.ExpirySchedule, cfg.Competition.RankingSchedule, httpRouter.Jobs{
		ExpireCheckins: checkinUsecases.NewExpireStaleCheckinsUseCase(checkinRepo, cfg.Checkin.PendingTTL, m, log),
		RefreshRanks:   competitionUsecases.NewRefreshActiveRankingsUseCase(updateRankings, log),
		PurgeSessions:  authUsecases.NewPurgeExpiredSessionsUseCase(repository.NewAuthSessionRepository(db), log),
	}); err != nil {
		logger.Fatal("failed to register jobs", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("running initial job pass")
	jobs.RunNow(ctx)

	jobs.Start()
	log.Infow("job worker started", "jobs", jobs.JobNames())

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := jobs.Stop(stopCtx); err != nil {
		log.Errorw("jobs did not finish before shutdown", "error", err)
	}

	log.Infow("job worker stopped")
}
