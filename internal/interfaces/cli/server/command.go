package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/database"
	"github.com/fitpass-app/fitpass/internal/infrastructure/migration"
	httpRouter "github.com/fitpass-app/fitpass/internal/interfaces/http"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/goroutine"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/version"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
)

// NewCommand returns the server command. configPath is shared with the root
// command's --config flag.
func NewCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the backend HTTP server",
		Long:  `Start the FitPass backend: auth, REST, RPC and storage APIs plus the periodic jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*configPath)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending database migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(configPath string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(ginMode, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, ginMode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"version", version.Version,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(cfg); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, logger.NewLogger())
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	container.SetupRoutes()

	container.Scheduler().Start()
	logger.Info("scheduler started", "jobs", container.Scheduler().JobNames())

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(logger.NewLogger(), "http-server", func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down server...")
	case err := <-serveErr:
		logger.Error("server failed", "error", err)
		container.Shutdown(context.Background())
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		container.Shutdown(ctx)
		return err
	}
	container.Shutdown(ctx)

	logger.Info("server exited gracefully")
	return nil
}

func handleMigrations(cfg *config.Config) error {
	if skipMigrationCheck {
		logger.Info("skipping migration check")
		return nil
	}

	manager, err := migration.NewManager(cfg.Database.MigrationStrategy, cfg.Database.Driver, logger.NewLogger())
	if err != nil {
		return err
	}
	ctx := context.Background()

	if autoMigrate {
		if env == constants.EnvProduction {
			logger.Warn("auto-migration is enabled in production environment")
		}
		logger.Info("running migrations", "strategy", manager.Strategy().Name())
		if err := manager.Up(ctx, database.Get()); err != nil {
			return err
		}
		logger.Info("migrations completed successfully")
		return nil
	}

	v, err := manager.Version(ctx, database.Get())
	switch {
	case errors.Is(err, migration.ErrUnsupported):
		logger.Info("migration strategy keeps no version", "strategy", manager.Strategy().Name())
	case err != nil:
		logger.Warn("failed to check migration status", "error", err)
	default:
		logger.Info("current migration version", "version", v)
	}
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
