package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// Recovery turns a handler panic into a 500. A panic caused by the client
// hanging up is logged without a response since nobody is left to read it.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"error", recovered,
		}
		if caller := CallerFrom(c); !caller.Anonymous() {
			fields = append(fields, "user_id", caller.UserID)
		}

		if clientGone(recovered) {
			log.Warnw("client disconnected mid-response", fields...)
			c.Abort()
			return
		}

		log.Errorw("panic recovered", append(fields, "stack", string(debug.Stack()))...)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
		c.Abort()
	})
}

func clientGone(recovered any) bool {
	err, ok := recovered.(error)
	return ok && (errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET))
}
