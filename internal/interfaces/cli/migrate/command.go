package migrate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/database"
	"github.com/fitpass-app/fitpass/internal/infrastructure/migration"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// scriptsDir is where create writes new scripts, relative to the repository root.
const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env      string
	strategy string
	name     string
	steps    int
)

// NewCommand returns the migrate command. configPath is shared with the root
// command's --config flag.
func NewCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect database migrations, and create new migration scripts.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Migration strategy (auto, goose, golang_migrate); defaults by driver")

	cmd.AddCommand(
		newUpCommand(configPath),
		newDownCommand(configPath),
		newStatusCommand(configPath),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd.Context(), *configPath, func(ctx context.Context, m *migration.Manager, log logger.Interface) error {
				log.Infow("running up migrations", "environment", env, "strategy", m.Strategy().Name())
				if err := m.Up(ctx, database.Get()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	}
}

func newDownCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd.Context(), *configPath, func(ctx context.Context, m *migration.Manager, log logger.Interface) error {
				log.Infow("running down migrations", "environment", env, "steps", steps)
				if err := m.Down(ctx, database.Get(), steps); err != nil {
					if errors.Is(err, migration.ErrUnsupported) {
						return fmt.Errorf("strategy %s cannot roll back", m.Strategy().Name())
					}
					return fmt.Errorf("down migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd.Context(), *configPath, func(ctx context.Context, m *migration.Manager, log logger.Interface) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nMigration Status:\n")
				fmt.Fprintf(out, "  Environment:     %s\n", env)
				fmt.Fprintf(out, "  Strategy:        %s\n", m.Strategy().Name())

				v, err := m.Version(ctx, database.Get())
				switch {
				case errors.Is(err, migration.ErrUnsupported):
					fmt.Fprintf(out, "  Current Version: n/a\n")
				case err != nil:
					return fmt.Errorf("failed to get migration version: %w", err)
				default:
					fmt.Fprintf(out, "  Current Version: %d\n", v)
				}
				return nil
			})
		},
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create empty postgres (goose) and mysql (golang-migrate) scripts sharing one version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(scriptsDir)
			if err != nil {
				return fmt.Errorf("failed to get scripts path: %w", err)
			}
			paths, err := migration.NewGenerator(dir).Create(name)
			if err != nil {
				return fmt.Errorf("failed to create migration: %w", err)
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func withManager(ctx context.Context, configPath string, fn func(context.Context, *migration.Manager, logger.Interface) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	selected := strategy
	if selected == "" {
		selected = cfg.Database.MigrationStrategy
	}
	m, err := migration.NewManager(selected, cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	return fn(ctx, m, log)
}
