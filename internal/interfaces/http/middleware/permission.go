package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apppermission "github.com/fitpass-app/fitpass/internal/application/permission"
	"github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// ResourceFunc names the resource a request touches.
type ResourceFunc func(c *gin.Context) string

func TableResource(c *gin.Context) string     { return permission.Table(c.Param("table")) }
func ProcedureResource(c *gin.Context) string { return permission.Procedure(c.Param("fn")) }
func BucketResource(c *gin.Context) string    { return permission.Bucket(c.Param("bucket")) }

// MethodAction maps GET and HEAD to read and every other method to write.
func MethodAction(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
		return permission.ActionRead
	default:
		return permission.ActionWrite
	}
}

type PermissionMiddleware struct {
	permissionService *apppermission.Service
}

func NewPermissionMiddleware(permissionService *apppermission.Service) *PermissionMiddleware {
	return &PermissionMiddleware{permissionService: permissionService}
}

// RequirePermission checks the caller's role against the resource. Anonymous
// callers that are denied get 401 rather than 403.
func (m *PermissionMiddleware) RequirePermission(resource ResourceFunc, action func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		err := m.permissionService.Authorize(caller.Role, resource(c), action(c))
		if err == nil {
			c.Next()
			return
		}
		if caller.Anonymous() {
			c.JSON(http.StatusUnauthorized, utils.ErrorBody{Code: utils.CodeJWTInvalid, Message: "authentication required"})
			c.Abort()
			return
		}
		utils.ErrorResponseWithError(c, err)
		c.Abort()
	}
}

// Execute is the action of remote procedure calls.
func Execute(*gin.Context) string { return permission.ActionExecute }
