package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rest"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers/rpc"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
)

// RestRouteConfig holds dependencies for the row and procedure routes.
type RestRouteConfig struct {
	RestHandler          *rest.Handler
	RPCHandler           *rpc.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupRestRoutes configures /rest/v1. Unknown tables and procedures answer
// 404 before the permission check.
func SetupRestRoutes(engine *gin.Engine, cfg *RestRouteConfig) {
	api := engine.Group("/rest/v1")
	api.Use(cfg.AuthMiddleware.Authenticate())

	api.POST("/rpc/:fn",
		cfg.RPCHandler.Resolve,
		cfg.PermissionMiddleware.RequirePermission(middleware.ProcedureResource, middleware.Execute),
		cfg.RPCHandler.Call,
	)

	tables := api.Group("/:table", cfg.RestHandler.Resolve)
	{
		rowAccess := cfg.PermissionMiddleware.RequirePermission(middleware.TableResource, middleware.MethodAction)
		tables.GET("", rowAccess, cfg.RestHandler.Select)
		tables.POST("", rowAccess, cfg.RestHandler.Insert)
		tables.PATCH("", rowAccess, cfg.RestHandler.Update)
		tables.PUT("", cfg.RestHandler.MethodNotAllowed)
		tables.DELETE("", cfg.RestHandler.MethodNotAllowed)
	}
}
