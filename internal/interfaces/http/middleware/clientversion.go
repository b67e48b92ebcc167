package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
	"github.com/fitpass-app/fitpass/internal/shared/version"
)

// MinClientVersion answers 426 to CLI builds older than minimum. Requests
// from other clients pass through.
func MinClientVersion(minimum string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if minimum == "" {
			c.Next()
			return
		}
		v, ok := version.ParseClientInfo(c.GetHeader(constants.HeaderXClientInfo))
		if ok && version.Older(v, minimum) {
			utils.ErrorResponse(c, http.StatusUpgradeRequired, "fitpass-cli "+version.Normalize(minimum)+" or newer is required")
			c.Abort()
			return
		}
		c.Next()
	}
}
