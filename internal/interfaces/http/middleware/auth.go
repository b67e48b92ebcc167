package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/infrastructure/auth"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

const contextKeySessionID = "session_id"

// Caller is the identity a request runs as. Anonymous callers have the anon
// role and no UserID.
type Caller struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
}

func (c Caller) Anonymous() bool { return c.UserID == "" }

// CallerFrom returns the caller stored by AuthMiddleware.
func CallerFrom(c *gin.Context) Caller {
	caller := Caller{
		UserID:    c.GetString(constants.ContextKeyUserID),
		Email:     c.GetString(constants.ContextKeyUserEmail),
		Role:      c.GetString(constants.ContextKeyUserRole),
		SessionID: c.GetString(contextKeySessionID),
	}
	if caller.Role == "" {
		caller.Role = permission.RoleAnon
	}
	return caller
}

// SetCaller stores caller on the request context.
func SetCaller(c *gin.Context, caller Caller) {
	c.Set(constants.ContextKeyUserID, caller.UserID)
	c.Set(constants.ContextKeyUserEmail, caller.Email)
	c.Set(constants.ContextKeyUserRole, caller.Role)
	c.Set(contextKeySessionID, caller.SessionID)
}

type AuthMiddleware struct {
	jwtService *auth.JWTService
	anonKey    string
	logger     logger.Interface
}

// NewAuthMiddleware checks the apikey header against anonKey when it is
// set. A bearer equal to the API key means an anonymous request.
func NewAuthMiddleware(jwtService *auth.JWTService, anonKey string, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		anonKey:    anonKey,
		logger:     logger,
	}
}

// Authenticate resolves the caller; requests without a user token continue
// as anon.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(constants.HeaderAPIKey)
		if m.anonKey != "" && apiKey != m.anonKey {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key")
			c.Abort()
			return
		}

		token := bearerToken(c)
		if token == "" || token == apiKey || token == m.anonKey {
			c.Set(constants.ContextKeyUserRole, permission.RoleAnon)
			c.Next()
			return
		}

		claims, err := m.jwtService.VerifyAccess(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			c.JSON(http.StatusUnauthorized, utils.ErrorBody{Code: utils.CodeJWTInvalid, Message: "JWT expired or invalid"})
			c.Abort()
			return
		}

		SetCaller(c, Caller{
			UserID:    claims.UserID(),
			Email:     claims.Email,
			Role:      claims.Role,
			SessionID: claims.SessionID,
		})
		c.Next()
	}
}

// RequireUser rejects anonymous callers. It must run after Authenticate.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c).Anonymous() {
			c.JSON(http.StatusUnauthorized, utils.AuthErrorBody{
				Code:      http.StatusUnauthorized,
				ErrorCode: "no_authorization",
				Msg:       "This endpoint requires a Bearer token",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(constants.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
