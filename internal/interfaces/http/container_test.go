package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/infrastructure/config"
	"github.com/fitpass-app/fitpass/internal/infrastructure/migration"
	"github.com/fitpass-app/fitpass/internal/infrastructure/repository"
	sharedConfig "github.com/fitpass-app/fitpass/internal/shared/config"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

const testAnonKey = "test-anon-key"

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(migration.Models()...))

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth: sharedConfig.AuthConfig{
			AnonKey:  testAnonKey,
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "container-test-secret-container-test", AccessExpMinutes: 60, RefreshExpDays: 30},
		},
		Storage:     sharedConfig.StorageConfig{Root: t.TempDir(), MaxUploadSize: 1 << 20},
		Checkin:     sharedConfig.CheckinConfig{PendingTTL: 2 * time.Hour, ExpirySchedule: "@every 5m", DefaultRadiusMeters: 100, ValidationsPerHour: 30},
		Competition: sharedConfig.CompetitionConfig{RankingSchedule: "@every 15m"},
	}

	c, err := NewContainer(database, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(func() { c.Shutdown(context.Background()) })

	assert.Equal(t, []string{"checkin-expiry", "ranking-refresh", "session-purge"}, c.Scheduler().JobNames())
	return &testServer{t: t, db: database, engine: c.Engine()}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", testAnonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

type sessionBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func TestContainer_CheckinFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/v1/signup", "", map[string]any{
		"email":    "ana@example.com",
		"password": "secret123",
		"data":     map[string]any{"full_name": "Ana"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var signedUp sessionBody
	decodeBody(t, w, &signedUp)
	require.NotEmpty(t, signedUp.AccessToken)

	w = s.do(http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]any{
		"email":    "ana@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sess sessionBody
	decodeBody(t, w, &sess)
	userID := sess.User.ID

	require.NoError(t, repository.NewAcademyRepository(s.db).Create(context.Background(), &academy.Academy{
		ID:           "academy-1",
		Name:         "Iron Gym",
		Latitude:     -23.5505,
		Longitude:    -46.6333,
		RadiusMeters: 100,
		OwnerID:      userID,
		CreatedAt:    time.Now().UTC(),
	}))

	w = s.do(http.MethodPost, "/rest/v1/checkins?select=id,status,academies(name)", sess.AccessToken,
		map[string]any{"academy_id": "academy-1"},
		"Prefer", "return=representation",
		"Accept", "application/vnd.pgrst.object+json",
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reserved struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Academies struct {
			Name string `json:"name"`
		} `json:"academies"`
	}
	decodeBody(t, w, &reserved)
	assert.Equal(t, "pending", reserved.Status)
	assert.Equal(t, "Iron Gym", reserved.Academies.Name)

	w = s.do(http.MethodPost, "/rest/v1/checkins", sess.AccessToken, map[string]any{"academy_id": "academy-1"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/rest/v1/rpc/validate_checkin", sess.AccessToken, map[string]any{
		"p_checkin_id": reserved.ID,
		"p_user_id":    userID,
		"p_latitude":   -23.5508,
		"p_longitude":  -46.6335,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var verdict struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, w, &verdict)
	assert.True(t, verdict.Success)

	w = s.do(http.MethodGet, "/rest/v1/checkins?status=eq.validated", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rows []map[string]any
	decodeBody(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, reserved.ID, rows[0]["id"])
}

func TestContainer_AccessControl(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"health is public", http.MethodGet, "/health", http.StatusOK},
		{"metrics are public", http.MethodGet, "/metrics", http.StatusOK},
		{"anon reads academies", http.MethodGet, "/rest/v1/academies", http.StatusOK},
		{"anon cannot read check-ins", http.MethodGet, "/rest/v1/checkins", http.StatusUnauthorized},
		{"unknown table", http.MethodGet, "/rest/v1/payments", http.StatusNotFound},
		{"unknown procedure", http.MethodPost, "/rest/v1/rpc/drop_everything", http.StatusNotFound},
		{"anon cannot validate", http.MethodPost, "/rest/v1/rpc/validate_checkin", http.StatusUnauthorized},
		{"delete is not supported", http.MethodDelete, "/rest/v1/academies", http.StatusMethodNotAllowed},
		{"user requires a token", http.MethodGet, "/auth/v1/user", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, "", nil)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestContainer_RejectsWrongAPIKey(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/rest/v1/academies", "", nil, "apikey", "nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContainer_ServesAPIDocs(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	decodeBody(t, w, &doc)
	assert.Equal(t, "FitPass API", doc.Info.Title)
	for _, path := range []string{"/auth/v1/token", "/rest/v1/{table}", "/rest/v1/rpc/{fn}", "/storage/v1/object/{bucket}/{path}", "/health"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Paths["/rest/v1/{table}"], "post")
}
