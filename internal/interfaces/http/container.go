package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	domainpermission "github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/infrastructure/auth"
	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/email"
	"github.com/fitpass-app/fitpass/internal/infrastructure/metrics"
	"github.com/fitpass-app/fitpass/internal/infrastructure/permission"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/infrastructure/scheduler"
	"github.com/fitpass-app/fitpass/internal/infrastructure/storage"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background services of the backend, and shuts them down in
// order.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	authRateLimiter      *middleware.RateLimiter

	// Infrastructure services
	txManager         *db.TransactionManager
	jwtSvc            *auth.JWTService
	hasher            *auth.BcryptPasswordHasher
	limiter           ratelimit.RateLimiter
	metrics           *metrics.Metrics
	objectStore       *storage.LocalStorage
	mailer            email.Service
	enforcer          *permission.Enforcer
	permissionService *apppermission.Service

	// Background services
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires the backend. The database must already be migrated.
func NewContainer(database *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     database,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, auth, storage, RBAC
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the gin engine serving the backend.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Scheduler returns the manager of the periodic jobs.
func (c *Container) Scheduler() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// Shutdown stops the background jobs and closes Redis.
func (c *Container) Shutdown(ctx context.Context) {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(ctx); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.limiter = ratelimit.NewRedisRateLimiter(client)
	} else {
		c.limiter = ratelimit.NewMemoryRateLimiter()
	}

	c.repos = newRepositories(c.db)
	c.txManager = db.NewTransactionManager(c.db)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	c.metrics = metrics.New()

	objectStore, err := storage.NewLocalStorage(cfg.Storage.Root, cfg.Storage.MaxUploadSize, log.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.objectStore = objectStore

	if cfg.Email.Enabled() {
		c.mailer = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			BaseURL:     cfg.Email.BaseURL,
		})
	} else {
		c.mailer = email.NewNopEmailService(log)
	}

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := enforcer.Seed(domainpermission.DefaultPolicies(), domainpermission.RoleInheritance); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer
	c.permissionService = apppermission.NewService(enforcer, log)

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client, nil
}
