package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	retry.MaxBackoff = 5 * time.Millisecond

	c, err := New(Config{
		URL:            srv.URL,
		AnonKey:        "anon-key",
		Retry:          retry,
		CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Hour},
	}, logger.NewNopLogger())
	require.NoError(t, err)
	return c
}

type row struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{AnonKey: "k"}, logger.NewNopLogger())
	assert.Error(t, err)
	_, err = New(Config{URL: "http://x"}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestQuery_BuildsPostgRESTRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/checkins", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		assert.Equal(t, "eq.pending", q.Get("status"))
		assert.Equal(t, "in.(a,b)", q.Get("academy_id"))
		assert.Equal(t, "*,academies(name)", q.Get("select"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]row{{ID: "c1", Status: "pending"}})
	})

	var rows []row
	err := c.WithToken("user-token").From("checkins").
		Select("*,academies(name)").
		Eq("user_id", "user-1").
		Eq("status", "pending").
		In("academy_id", "a", "b").
		Order("created_at", false).
		Limit(5).
		Execute(context.Background(), &rows)

	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "c1", Status: "pending"}}, rows)
}

func TestQuery_ComparisonFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "neq.expired", q.Get("status"))
		assert.Equal(t, []string{"gte.3", "lt.5"}, q["rating"])
		assert.Equal(t, "gt.10", q.Get("score"))
		assert.Equal(t, "lte.100", q.Get("radius_meters"))
		assert.Equal(t, "20", q.Get("offset"))
		assert.Equal(t, "gte.2026-03-01T03:00:00Z", q.Get("created_at"))
		_, _ = io.WriteString(w, "[]")
	})

	var rows []row
	err := c.From("reviews").
		Neq("status", "expired").
		Gte("rating", 3).
		Lt("rating", 5).
		Gt("score", 10).
		Lte("radius_meters", 100).
		Gte("created_at", time.Date(2026, 3, 1, 0, 0, 0, 0, time.FixedZone("BRT", -3*3600))).
		Offset(20).
		Execute(context.Background(), &rows)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQuery_AnonBearerWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})
	var rows []row
	require.NoError(t, c.From("academies").Execute(context.Background(), &rows))
	assert.Empty(t, rows)
}

func TestQuery_Single(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		if r.URL.Query().Get("id") == "eq.missing" {
			w.WriteHeader(http.StatusNotAcceptable)
			_, _ = w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned","details":"The result contains 0 rows"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"c1","status":"validated"}`))
	})

	var got row
	require.NoError(t, c.From("checkins").Eq("id", "c1").Single(context.Background(), &got))
	assert.Equal(t, "validated", got.Status)

	err := c.From("checkins").Eq("id", "missing").Single(context.Background(), &got)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestQuery_MaybeSingle(t *testing.T) {
	var payload atomic.Value
	payload.Store(`[]`)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload.Load().(string)))
	})

	var got row
	found, err := c.From("checkins").Eq("status", "pending").MaybeSingle(context.Background(), &got)
	require.NoError(t, err)
	assert.False(t, found)

	payload.Store(`[{"id":"c9","status":"pending"}]`)
	found, err = c.From("checkins").Eq("status", "pending").MaybeSingle(context.Background(), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "c9", got.ID)

	payload.Store(`[{"id":"a"},{"id":"b"}]`)
	_, err = c.From("checkins").MaybeSingle(context.Background(), &got)
	assert.Error(t, err)
}

func TestQuery_InsertConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint","details":"user already has a pending check-in"}`))
	})

	err := c.From("checkins").Insert(context.Background(), map[string]string{"status": "pending"}, nil)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsTransport(err))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "23505", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestQuery_UpsertAndUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "user_id,academy_id", r.URL.Query().Get("on_conflict"))
			assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		case http.MethodPatch:
			assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
			assert.JSONEq(t, `{"full_name":"Ana"}`, string(body))
		}
		_, _ = w.Write([]byte(`[{"id":"x"}]`))
	})

	var out []row
	require.NoError(t, c.From("reviews").Upsert(context.Background(), map[string]any{"rating": 5}, "user_id,academy_id", &out))
	require.NoError(t, c.From("profiles").Eq("id", "u1").Update(context.Background(), map[string]string{"full_name": "Ana"}, &out))

	assert.Error(t, c.From("profiles").Update(context.Background(), map[string]string{}, nil))
	assert.Error(t, c.From("profiles").Delete(context.Background(), nil))
}

func TestRPC(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/validate_checkin", r.URL.Path)
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "c1", params["p_checkin_id"])
		assert.Equal(t, 10.0, params["p_latitude"])
		_, _ = w.Write([]byte(`{"success":false,"message":"Too far from academy"}`))
	})

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := c.RPC(context.Background(), "validate_checkin", map[string]any{
		"p_checkin_id": "c1",
		"p_latitude":   10.0,
	}, &out)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Too far from academy", out.Message)
}

func TestRetry_TransientStatus(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	var out map[string]any
	require.NoError(t, c.RPC(context.Background(), "validate_checkin", nil, &out))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, CircuitClosed, c.CircuitState())
}

func TestRetry_NotForInsert(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.From("checkins").Insert(context.Background(), map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportError(t *testing.T) {
	c, err := New(Config{
		URL:     "http://127.0.0.1:1",
		AnonKey: "k",
		Retry:   RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond},
	}, logger.NewNopLogger())
	require.NoError(t, err)

	err = c.RPC(context.Background(), "validate_checkin", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})

	for i := 0; i < 3; i++ {
		err := c.From("academies").Insert(context.Background(), map[string]string{}, nil)
		require.Error(t, err)
	}
	assert.Equal(t, CircuitOpen, c.CircuitState())

	before := calls.Load()
	err := c.From("academies").Insert(context.Background(), map[string]string{}, nil)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.True(t, IsTransport(err))
	assert.Equal(t, before, calls.Load())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 2, Timeout: time.Minute})
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestParseAPIError_AuthShapes(t *testing.T) {
	e := parseAPIError(http.StatusBadRequest, []byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	assert.Equal(t, "Invalid login credentials", e.Message)

	e = parseAPIError(http.StatusUnprocessableEntity, []byte(`{"code":422,"msg":"User already registered"}`))
	assert.Equal(t, "User already registered", e.Message)
	assert.Empty(t, e.Code)

	e = parseAPIError(http.StatusBadGateway, []byte(`<html>`))
	assert.Equal(t, "Bad Gateway", e.Message)
}
