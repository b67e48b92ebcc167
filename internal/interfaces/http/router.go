package http

import (
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/routes"
)

// SetupRoutes installs the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(c.log.Named("http"), "/health", "/metrics", "/swagger/*any"),
		middleware.Recovery(c.log),
		middleware.CORS(c.cfg.Server.AllowedOrigins),
		middleware.SecurityHeaders(),
		c.metrics.GinMiddleware(),
		middleware.MinClientVersion(c.cfg.Server.MinClientVersion),
	)

	routes.SetupSystemRoutes(c.engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		MetricsHandler: c.metrics.Handler(),
	})

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.authRateLimiter,
	})

	routes.SetupRestRoutes(c.engine, &routes.RestRouteConfig{
		RestHandler:          c.hdlrs.restHandler,
		RPCHandler:           c.hdlrs.rpcHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupStorageRoutes(c.engine, &routes.StorageRouteConfig{
		StorageHandler:       c.hdlrs.storageHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
