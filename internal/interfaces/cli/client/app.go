// Package client holds the end-user commands of the fitpass CLI. Every
// command talks to the backend through the gateway client and acts as the
// session persisted by the last login.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	appCheckin "github.com/fitpass-app/fitpass/internal/application/checkin"
	appSession "github.com/fitpass-app/fitpass/internal/application/session"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/i18n"
	"github.com/fitpass-app/fitpass/internal/infrastructure/location"
	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
	"github.com/fitpass-app/fitpass/internal/infrastructure/sessionfile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	sharedConfig "github.com/fitpass-app/fitpass/internal/shared/config"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Globals are the root command's persistent flags.
type Globals struct {
	ConfigPath string
	Verbose    bool
}

// errNotLoggedIn replaces session.ErrNoSession in user-facing output.
var errNotLoggedIn = errors.New("not logged in: run `fitpass login` first")

// app is the per-invocation wiring of a client command.
type app struct {
	cfg     *config.Config
	log     logger.Interface
	gateway *supabase.Client
	store   *appSession.Store
	out     io.Writer
}

func newApp(cmd *cobra.Command, g *Globals) (*app, error) {
	cfg, err := config.Load("", g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// command output owns stdout
	logCfg := cfg.Logger
	if logCfg.OutputPath == "" || strings.EqualFold(logCfg.OutputPath, "stdout") {
		logCfg.OutputPath = "stderr"
	}
	if !g.Verbose && logger.ParseLevel(logCfg.Level) < slog.LevelWarn {
		logCfg.Level = "warn"
	}
	if err := logger.Init(&logCfg, g.Verbose); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	log := logger.NewLogger()

	gateway, err := supabase.New(gatewayConfig(&cfg.Gateway), log.Named("gateway"))
	if err != nil {
		return nil, err
	}

	store := appSession.NewStore(gateway.Auth(), sessionfile.New(cfg.Client.SessionFile), log.Named("session"))
	if err := store.Load(commandContext(cmd)); err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		gateway: gateway,
		store:   store,
		out:     cmd.OutOrStdout(),
	}, nil
}

func gatewayConfig(gw *sharedConfig.GatewayConfig) supabase.Config {
	retry := supabase.DefaultRetryConfig()
	retry.MaxRetries = gw.Retry.MaxRetries
	if gw.Retry.InitialBackoff > 0 {
		retry.InitialBackoff = gw.Retry.InitialBackoff
	}
	if gw.Retry.MaxBackoff > 0 {
		retry.MaxBackoff = gw.Retry.MaxBackoff
	}

	breaker := supabase.DefaultCircuitBreakerConfig()
	if gw.CircuitBreaker.FailureThreshold > 0 {
		breaker.FailureThreshold = gw.CircuitBreaker.FailureThreshold
	}
	if gw.CircuitBreaker.SuccessThreshold > 0 {
		breaker.SuccessThreshold = gw.CircuitBreaker.SuccessThreshold
	}
	if gw.CircuitBreaker.Timeout > 0 {
		breaker.Timeout = gw.CircuitBreaker.Timeout
	}

	return supabase.Config{
		URL:            gw.URL,
		AnonKey:        gw.AnonKey,
		Timeout:        gw.Timeout,
		Retry:          retry,
		CircuitBreaker: breaker,
	}
}

// session returns the logged-in session.
func (a *app) session() (*session.Session, error) {
	sess, err := a.store.Require()
	if errors.Is(err, session.ErrNoSession) {
		return nil, errNotLoggedIn
	}
	return sess, err
}

func (a *app) checkins() *remote.Checkins {
	return remote.NewCheckins(a.gateway, a.log.Named("checkins"))
}

func (a *app) competitions() *remote.Competitions {
	return remote.NewCompetitions(a.gateway, a.log.Named("competitions"))
}

func (a *app) referrals() *remote.Referrals {
	return remote.NewReferrals(a.gateway, a.store, a.log.Named("referrals"))
}

// flow builds the check-in flow. position overrides the configured device
// position; permission overrides the configured permission mode.
func (a *app) flow(position *checkin.Coordinates, permission string) (*appCheckin.Flow, error) {
	loc := a.cfg.Client.Location
	if permission == "" {
		permission = loc.Permission
	}
	if position == nil && (loc.Latitude != 0 || loc.Longitude != 0) {
		position = &checkin.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	locator, err := location.NewFixed(permission, position)
	if err != nil {
		return nil, err
	}
	return appCheckin.NewFlow(a.checkins(), locator, i18n.New(a.cfg.Client.Locale), a.log.Named("checkin")), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runE adapts fn to a cobra RunE that wires the app first.
func runE(g *Globals, fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, g)
		if err != nil {
			return err
		}
		defer logger.Sync()
		return fn(commandContext(cmd), a, args)
	}
}
