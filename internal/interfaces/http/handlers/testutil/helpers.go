// Package testutil builds gin contexts for handler tests the way the
// middleware chain would leave them.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ErrorBody is the PostgREST error shape handlers answer with.
type ErrorBody = utils.ErrorBody

// NewTestContext returns a context for method and target. A non-nil body is
// sent as JSON. The caller starts anonymous, as after AuthMiddleware.
func NewTestContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set(constants.HeaderContentType, "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	middleware.SetCaller(c, middleware.Caller{})
	return c, w
}

// SetCaller signs the request in as userID with role.
func SetCaller(c *gin.Context, userID, role string) {
	middleware.SetCaller(c, middleware.Caller{
		UserID:    userID,
		Email:     userID + "@example.com",
		Role:      role,
		SessionID: "session-" + userID,
	})
}

// SetURLParam fills a route parameter such as :table or :fn.
func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// ParseResponse decodes the recorded JSON body into target. The body stays
// readable.
func ParseResponse(w *httptest.ResponseRecorder, target any) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}
