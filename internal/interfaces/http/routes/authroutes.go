package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/interfaces/http/handlers"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
)

type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupAuthRoutes mounts /auth/v1. Credential endpoints are rate limited;
// session endpoints need a user token.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth/v1", cfg.AuthMiddleware.Authenticate())

	credentials := auth.Group("", cfg.RateLimiter.Limit())
	credentials.POST("/signup", cfg.AuthHandler.SignUp)
	credentials.POST("/token", cfg.AuthHandler.Token)

	signedIn := auth.Group("", cfg.AuthMiddleware.RequireUser())
	signedIn.POST("/logout", cfg.AuthHandler.Logout)
	signedIn.GET("/user", cfg.AuthHandler.User)
}
