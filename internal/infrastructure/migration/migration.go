package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Manager runs the strategy selected for a database.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy by name. An empty name selects the driver's
// default: embedded goose scripts for postgres, golang-migrate scripts for
// mysql and gorm auto migrate for sqlite.
func NewManager(name, driver string, log logger.Interface) (*Manager, error) {
	if name == "" {
		name = DefaultStrategy(driver)
	}

	var strategy Strategy
	switch name {
	case StrategyAuto:
		strategy = NewAutoMigrateStrategy(log)
	case StrategyGoose:
		if driver != "postgres" {
			return nil, fmt.Errorf("goose scripts target postgres, not %s", driver)
		}
		strategy = NewGooseStrategy(log)
	case StrategyGolangMigrate:
		if driver != "mysql" {
			return nil, fmt.Errorf("golang-migrate scripts target mysql, not %s", driver)
		}
		strategy = NewGolangMigrateStrategy(log)
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", name)
	}

	return &Manager{strategy: strategy, logger: log.With("component", "migration.manager")}, nil
}

func DefaultStrategy(driver string) string {
	switch driver {
	case "postgres":
		return StrategyGoose
	case "mysql":
		return StrategyGolangMigrate
	default:
		return StrategyAuto
	}
}

func (m *Manager) Strategy() Strategy { return m.strategy }

func (m *Manager) Up(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())
	if err := m.strategy.Up(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	m.logger.Infow("database migration completed", "strategy", m.strategy.Name())
	return nil
}

func (m *Manager) Down(ctx context.Context, db *gorm.DB, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	m.logger.Infow("rolling back migrations", "strategy", m.strategy.Name(), "steps", steps)
	return m.strategy.Down(ctx, db, steps)
}

func (m *Manager) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	return m.strategy.Version(ctx, db)
}
