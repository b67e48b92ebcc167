package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = id.NewUUID()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}

// RequestLogger writes one line per request. Successful requests to the
// quiet routes (probes and scrapes) are not logged.
func RequestLogger(log logger.Interface, quiet ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(quiet))
	for _, route := range quiet {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if _, ok := skip[route]; ok && status < 400 {
			return
		}

		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
			"request_id", c.GetString(constants.ContextKeyRequestID),
		}
		// REST and RPC share one route each; name the target
		for _, param := range []string{"table", "fn"} {
			if v := c.Param(param); v != "" {
				fields = append(fields, param, v)
			}
		}
		if info := c.GetHeader(constants.HeaderXClientInfo); info != "" {
			fields = append(fields, "client", info)
		}
		if caller := CallerFrom(c); !caller.Anonymous() {
			fields = append(fields, "user_id", caller.UserID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
