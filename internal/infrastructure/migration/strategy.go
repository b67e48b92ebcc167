package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

//go:embed scripts/postgres/*.sql scripts/mysql/*.sql
var scripts embed.FS

// Strategy names.
const (
	StrategyAuto          = "auto"
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang_migrate"
)

// Strategy applies schema changes to a database.
type Strategy interface {
	Up(ctx context.Context, db *gorm.DB) error
	Down(ctx context.Context, db *gorm.DB, steps int) error
	Version(ctx context.Context, db *gorm.DB) (int64, error)
	Name() string
}

// ErrUnsupported is returned by operations a strategy cannot perform.
var ErrUnsupported = errors.New("operation not supported by migration strategy")

// AutoMigrateStrategy creates and alters tables from the gorm models. It has
// no history, so Down and Version are unsupported.
type AutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface, models ...interface{}) *AutoMigrateStrategy {
	if len(models) == 0 {
		models = Models()
	}
	return &AutoMigrateStrategy{models: models, logger: log.With("component", "migration.auto")}
}

func (s *AutoMigrateStrategy) Up(ctx context.Context, db *gorm.DB) error {
	s.logger.Infow("running gorm auto migrate", "models", len(s.models))
	if err := db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *AutoMigrateStrategy) Down(context.Context, *gorm.DB, int) error { return ErrUnsupported }

func (s *AutoMigrateStrategy) Version(context.Context, *gorm.DB) (int64, error) {
	return 0, ErrUnsupported
}

func (s *AutoMigrateStrategy) Name() string { return StrategyAuto }

// GooseStrategy applies the embedded PostgreSQL scripts.
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	return &GooseStrategy{logger: log.With("component", "migration.goose")}
}

func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	fsys, err := fs.Sub(scripts, "scripts/postgres")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (s *GooseStrategy) Up(ctx context.Context, db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		s.logger.Infow("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration", r.Duration)
	}
	return nil
}

func (s *GooseStrategy) Down(ctx context.Context, db *gorm.DB, steps int) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		r, err := p.Down(ctx)
		if err != nil {
			if errors.Is(err, goose.ErrNoNextVersion) {
				return nil
			}
			return fmt.Errorf("goose down: %w", err)
		}
		s.logger.Infow("migration rolled back", "version", r.Source.Version)
	}
	return nil
}

func (s *GooseStrategy) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

func (s *GooseStrategy) Name() string { return StrategyGoose }

// GolangMigrateStrategy applies the embedded MySQL scripts.
type GolangMigrateStrategy struct {
	logger logger.Interface
}

func NewGolangMigrateStrategy(log logger.Interface) *GolangMigrateStrategy {
	return &GolangMigrateStrategy{logger: log.With("component", "migration.golang-migrate")}
}

func (s *GolangMigrateStrategy) instance(sqlDB *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(scripts, "scripts/mysql")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts: %w", err)
	}
	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func (s *GolangMigrateStrategy) run(db *gorm.DB, fn func(m *migrate.Migrate) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	m, err := s.instance(sqlDB)
	if err != nil {
		return err
	}
	return fn(m)
}

func (s *GolangMigrateStrategy) Up(_ context.Context, db *gorm.DB) error {
	return s.run(db, func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get current migration version: %w", err)
		}
		if dirty {
			return fmt.Errorf("database is in dirty state at version %d", version)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		final, _, _ := m.Version()
		s.logger.Infow("migration completed", "from_version", version, "to_version", final)
		return nil
	})
}

func (s *GolangMigrateStrategy) Down(_ context.Context, db *gorm.DB, steps int) error {
	return s.run(db, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run down migrations: %w", err)
		}
		return nil
	})
}

func (s *GolangMigrateStrategy) Version(_ context.Context, db *gorm.DB) (int64, error) {
	var version uint
	err := s.run(db, func(m *migrate.Migrate) error {
		v, _, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return err
		}
		version = v
		return nil
	})
	return int64(version), err
}

func (s *GolangMigrateStrategy) Name() string { return StrategyGolangMigrate }
