package systemhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gourmetto/internal/domain/auth"
	"gourmetto/internal/platform/connectivity"
	"gourmetto/internal/platform/jobs"
	"gourmetto/internal/platform/metrics"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
)

const readyTimeout = 2 * time.Second

// Runs reports the latest run of a background job.
type Runs interface {
	LastRun(jobType string) (jobs.Run, bool)
}

type Handler struct {
	Monitor *connectivity.Monitor
	Metrics *metrics.Collector
	Runs    Runs
}

type statusResponse struct {
	connectivity.Status
	LastProbe *jobs.Run `json:"lastProbe,omitempty"`
}

func NewHandler(monitor *connectivity.Monitor, collector *metrics.Collector, runs Runs) *Handler {
	return &Handler{Monitor: monitor, Metrics: collector, Runs: runs}
}

// RegisterProbes mounts the unauthenticated health endpoints.
func (h *Handler) RegisterProbes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/status", h.handleStatus)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermMetricsRead)).Get("/metrics", h.handleMetrics)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady re-probes the store, so it also refreshes the shared
// connectivity state.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if !h.Monitor.Check(ctx) {
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	out := statusResponse{Status: h.Monitor.Status()}
	if h.Runs != nil {
		if run, ok := h.Runs.LastRun(connectivity.ProbeJob); ok {
			out.LastProbe = &run
		}
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
