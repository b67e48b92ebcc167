package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// RateLimiter throttles a route group per caller: signed-in users by user
// ID, everyone else by client IP.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	scope   string
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, config ratelimit.RateLimitConfig, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, config: config, scope: scope, logger: logger}
}

// Limit fails open: a limiter error lets the request through.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(rl.config.ShortestWindow().Seconds()))

	return func(c *gin.Context) {
		key := rl.key(c)
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.config)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			rl.logger.Infow("rate limit hit", "scope", rl.scope, "key", key)
			c.Header("Retry-After", retryAfter)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	if caller := CallerFrom(c); !caller.Anonymous() {
		return rl.scope + ":user:" + caller.UserID
	}
	return rl.scope + ":ip:" + c.ClientIP()
}
