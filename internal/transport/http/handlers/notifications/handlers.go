package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gourmetto/internal/domain/notify"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
)

// Handler exposes the operator's notification slot.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notification", func(r chi.Router) {
		r.Get("/", h.handleCurrent)
		r.Delete("/", h.handleDismiss)
		r.Get("/remediation", h.handleRemediation)
	})
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ws, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	note, ok := ws.Guard().Current()
	if !ok {
		api.Success(w, nil, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, note, middleware.GetRequestID(r.Context()))
}

// handleDismiss is the operator's acknowledgement. It is the only way a
// blocking notice leaves the slot.
func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	ws, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	ws.Guard().Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemediation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/sql; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(notify.RemediationScript()))
}
