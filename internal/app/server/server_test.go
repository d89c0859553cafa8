package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/gateway"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/domain/record"
	"gourmetto/internal/platform/config"
	"gourmetto/internal/platform/connectivity"
	"gourmetto/internal/platform/metrics"
	"gourmetto/internal/platform/sessions"
	"gourmetto/internal/transport/http/api"
)

type store struct {
	mu   sync.Mutex
	up   bool
	rows map[gateway.Collection][]record.Record
}

func (s *store) Probe(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.up
}

func (s *store) setUp(v bool) {
	s.mu.Lock()
	s.up = v
	s.mu.Unlock()
}

func (s *store) FetchAll(_ context.Context, c gateway.Collection) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]record.Record{}, s.rows[c]...), nil
}

func (s *store) FetchWhere(ctx context.Context, c gateway.Collection, _, _ string) ([]record.Record, error) {
	return s.FetchAll(ctx, c)
}

func (s *store) Create(_ context.Context, c gateway.Collection, rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := record.Sanitize(record.Without(rec, "id"))
	row["id"] = uuid.NewString()
	s.rows[c] = append(s.rows[c], row)
	return row, nil
}

func (s *store) Update(_ context.Context, c gateway.Collection, _ string, patch record.Record) (record.Record, error) {
	return nil, &gateway.Error{Op: gateway.OpWrite, Collection: c, Err: gateway.ErrNotFound}
}

func (s *store) Delete(context.Context, gateway.Collection, string) error { return nil }

type users struct{}

func (users) Authenticate(_ context.Context, email, password string) (*hr.AppUser, bool) {
	if email != "admin@gourmetto.com" || password != "segredo123" {
		return nil, false
	}
	return &hr.AppUser{ID: "u1", Name: "Admin", Email: email, Role: auth.RoleManager}, true
}

func (users) RegisterUser(_ context.Context, name, email, _, role string) (*hr.AppUser, error) {
	return &hr.AppUser{ID: "u2", Name: name, Email: email, Role: role}, nil
}

func testConfig() config.Config {
	return config.Config{
		Environment:        "test",
		JWTSecret:          "router-secret",
		MaxBodyBytes:       1 << 20,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
		NotifyDismissAfter: time.Minute,
		SessionTTL:         time.Hour,
	}
}

func newRouter(t *testing.T) (http.Handler, *store, *connectivity.Monitor) {
	t.Helper()
	st := &store{up: true, rows: map[gateway.Collection][]record.Record{}}
	monitor := connectivity.New(st)
	registry := workspace.NewRegistry(st, monitor)
	t.Cleanup(registry.CloseAll)
	return NewRouter(Deps{
		Config:     testConfig(),
		Users:      users{},
		Sessions:   sessions.NewMemoryStore(),
		Workspaces: registry,
		Monitor:    monitor,
		Metrics:    metrics.New(),
	}), st, monitor
}

func send(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out api.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestProbesAndAuthBoundary(t *testing.T) {
	h, _, _ := newRouter(t)

	rec, _ := send(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, _ = send(t, h, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, h, http.MethodGet, "/api/v1/status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out := send(t, h, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", out.Error.Code)
}

func TestOperatorJourney(t *testing.T) {
	h, st, monitor := newRouter(t)

	rec, out := send(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@gourmetto.com", "password": "segredo123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := out.Data.(map[string]any)["token"].(string)

	rec, _ = send(t, h, http.MethodPost, "/api/v1/employees", token, map[string]any{"name": "Ana", "salary": 0})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, out = send(t, h, http.MethodGet, "/api/v1/notification", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Funcionário registrado com sucesso.", out.Data.(map[string]any)["message"])

	st.setUp(false)
	monitor.MarkOffline("test outage")
	rec, out = send(t, h, http.MethodPost, "/api/v1/employees", token, map[string]any{"name": "Bruno"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "offline", out.Error.Code)

	rec, out = send(t, h, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, "cached lists stay readable")
	assert.Len(t, out.Data, 1)

	st.setUp(true)
	rec, _ = send(t, h, http.MethodPost, "/api/v1/sync", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, connectivity.Online, monitor.State())

	rec, _ = send(t, h, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = send(t, h, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
