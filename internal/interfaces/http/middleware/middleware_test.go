package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/shared/constants"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := serve(engine, http.MethodGet, "/ping", nil)
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = serve(engine, http.MethodGet, "/ping", http.Header{constants.HeaderXRequestID: {"req-42"}})
	assert.Equal(t, "req-42", w.Header().Get(constants.HeaderXRequestID))
}

func TestRequestLogger(t *testing.T) {
	log := newRecordingLogger()
	engine := gin.New()
	engine.Use(RequestLogger(log, "/health"))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/rest/v1/:table", func(c *gin.Context) {
		SetCaller(c, Caller{UserID: "u1", Role: "member"})
		c.Status(http.StatusNotFound)
	})
	engine.POST("/rest/v1/rpc/:fn", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(engine, http.MethodGet, "/health", nil)
	assert.Empty(t, log.all(), "healthy probes are not logged")

	serve(engine, http.MethodGet, "/rest/v1/checkins", http.Header{constants.HeaderXClientInfo: {"fitpass-cli/1.2.0"}})
	serve(engine, http.MethodPost, "/rest/v1/rpc/validate_checkin", nil)

	entries := log.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0].level)
	assert.Equal(t, "checkins", entries[0].field("table"))
	assert.Equal(t, "u1", entries[0].field("user_id"))
	assert.Equal(t, "fitpass-cli/1.2.0", entries[0].field("client"))
	assert.Equal(t, "/rest/v1/:table", entries[0].field("route"))

	assert.Equal(t, "error", entries[1].level)
	assert.Equal(t, "validate_checkin", entries[1].field("fn"))
	assert.Nil(t, entries[1].field("user_id"))
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(ratelimit.NewMemoryRateLimiter(), "auth", ratelimit.RateLimitConfig{RequestsPerMinute: 2}, logger.NewNopLogger())
	engine := gin.New()
	engine.POST("/auth/v1/token", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/auth/v1/token", nil).Code)
	}
	w := serve(engine, http.MethodPost, "/auth/v1/token", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_KeysByCaller(t *testing.T) {
	var keys []string
	limiter := &mockLimiter{AllowFunc: func(_ context.Context, key string, _ ratelimit.RateLimitConfig) (bool, error) {
		keys = append(keys, key)
		return true, nil
	}}
	rl := NewRateLimiter(limiter, "rpc", ratelimit.RateLimitConfig{RequestsPerHour: 10}, logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/anon", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/user", func(c *gin.Context) {
		SetCaller(c, Caller{UserID: "u1", Role: "member"})
	}, rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, http.MethodGet, "/anon", nil)
	serve(engine, http.MethodGet, "/user", nil)
	require.Len(t, keys, 2)
	assert.Equal(t, "rpc:ip:192.0.2.1", keys[0])
	assert.Equal(t, "rpc:user:u1", keys[1])
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	log := newRecordingLogger()
	limiter := &mockLimiter{AllowFunc: func(context.Context, string, ratelimit.RateLimitConfig) (bool, error) {
		return false, errors.New("redis down")
	}}
	rl := NewRateLimiter(limiter, "auth", ratelimit.RateLimitConfig{RequestsPerMinute: 1}, log)
	engine := gin.New()
	engine.GET("/x", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/x", nil).Code)
	require.Len(t, log.all(), 1)
	assert.Equal(t, "warn", log.all()[0].level)
}

func TestRecovery(t *testing.T) {
	log := newRecordingLogger()
	engine := gin.New()
	engine.Use(Recovery(log))
	engine.GET("/boom", func(*gin.Context) { panic("boom") })
	engine.GET("/gone", func(*gin.Context) { panic(error(syscall.EPIPE)) })

	w := serve(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	serve(engine, http.MethodGet, "/gone", nil)

	entries := log.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].level)
	assert.NotNil(t, entries[0].field("stack"))
	assert.Equal(t, "warn", entries[1].level)
	assert.Nil(t, entries[1].field("stack"))
}

func TestMinClientVersion(t *testing.T) {
	engine := gin.New()
	engine.Use(MinClientVersion("1.2.0"))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUpgradeRequired, serve(engine, http.MethodGet, "/x", http.Header{constants.HeaderXClientInfo: {"fitpass-cli/1.1.9"}}).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/x", http.Header{constants.HeaderXClientInfo: {"fitpass-cli/1.2.0"}}).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/x", nil).Code)
}
