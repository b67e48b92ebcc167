package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
)

// StorageRouteConfig holds dependencies for object storage routes.
type StorageRouteConfig struct {
	StorageHandler       *handlers.StorageHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupStorageRoutes configures /storage/v1/object.
func SetupStorageRoutes(engine *gin.Engine, cfg *StorageRouteConfig) {
	objects := engine.Group("/storage/v1/object")
	objects.Use(cfg.AuthMiddleware.Authenticate())

	bucketAccess := cfg.PermissionMiddleware.RequirePermission(middleware.BucketResource, middleware.MethodAction)
	{
		objects.GET("/public/:bucket/*path", bucketAccess, cfg.StorageHandler.Download)
		objects.GET("/:bucket/*path", bucketAccess, cfg.StorageHandler.Download)
		objects.POST("/:bucket/*path", bucketAccess, cfg.StorageHandler.Upload)
		objects.PUT("/:bucket/*path", bucketAccess, cfg.StorageHandler.Upload)
		objects.DELETE("/:bucket/*path", bucketAccess, cfg.StorageHandler.Remove)
	}
}
