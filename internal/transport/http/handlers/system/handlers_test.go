package systemhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gourmetto/internal/domain/auth"
	"gourmetto/internal/platform/connectivity"
	"gourmetto/internal/platform/jobs"
	"gourmetto/internal/platform/metrics"
	"gourmetto/internal/transport/http/middleware"
)

type prober struct{ up bool }

type runs map[string]jobs.Run

func (r runs) LastRun(jobType string) (jobs.Run, bool) {
	run, ok := r[jobType]
	return run, ok
}

func (p *prober) Probe(context.Context) bool { return p.up }

const secret = "test-secret"

func setup(up bool) (http.Handler, *prober, *connectivity.Monitor) {
	return setupWithRuns(up, nil)
}

func setupWithRuns(up bool, last Runs) (http.Handler, *prober, *connectivity.Monitor) {
	p := &prober{up: up}
	monitor := connectivity.New(p)
	h := NewHandler(monitor, metrics.New(), last)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(secret))
	h.RegisterProbes(r)
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterPublicRoutes(r)
		h.RegisterRoutes(r)
	})
	return r, p, monitor
}

func serve(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReadyzFollowsProbe(t *testing.T) {
	h, p, monitor := setup(false)

	assert.Equal(t, http.StatusOK, serve(h, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz", "").Code)
	assert.Equal(t, connectivity.Offline, monitor.State())

	p.up = true
	assert.Equal(t, http.StatusOK, serve(h, "/readyz", "").Code)
	assert.Equal(t, connectivity.Online, monitor.State())
}

func TestStatusReportsConnectivity(t *testing.T) {
	h, _, _ := setup(true)

	rec := serve(h, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data connectivity.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, connectivity.Checking, out.Data.State)
}

func TestStatusIncludesLastProbeRun(t *testing.T) {
	finished := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	h, _, _ := setupWithRuns(true, runs{connectivity.ProbeJob: {
		Type:        connectivity.ProbeJob,
		Status:      jobs.StatusCompleted,
		StartedAt:   finished.Add(-time.Second),
		CompletedAt: finished,
	}})

	rec := serve(h, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			State     connectivity.State `json:"state"`
			LastProbe *jobs.Run          `json:"lastProbe"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, connectivity.Checking, out.Data.State)
	require.NotNil(t, out.Data.LastProbe)
	assert.Equal(t, jobs.StatusCompleted, out.Data.LastProbe.Status)
	assert.True(t, finished.Equal(out.Data.LastProbe.CompletedAt))
}

func TestMetricsRequiresManager(t *testing.T) {
	h, _, _ := setup(true)

	assert.Equal(t, http.StatusUnauthorized, serve(h, "/api/v1/metrics", "").Code)

	supervisor, err := auth.GenerateToken(secret, auth.Claims{UserID: "u2", Role: auth.RoleSupervisor, SessionID: "s"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(h, "/api/v1/metrics", supervisor).Code)

	manager, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Role: auth.RoleManager, SessionID: "s"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serve(h, "/api/v1/metrics", manager).Code)
}
