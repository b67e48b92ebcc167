package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fitpass-app/fitpass/docs"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers"
)

// SystemRouteConfig holds dependencies for the unauthenticated probes.
type SystemRouteConfig struct {
	HealthHandler  *handlers.HealthHandler
	MetricsHandler http.Handler
}

func SetupSystemRoutes(engine *gin.Engine, cfg *SystemRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.Health)
	engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
