package corehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/notify"
	"gourmetto/internal/domain/record"
	"gourmetto/internal/platform/connectivity"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
	"gourmetto/internal/transport/http/shared"
)

// Handler serves the roster, history and document endpoints. Every call
// works against the workspace attached by RequireSession; writes are
// refused while the store is offline.
type Handler struct {
	Monitor *connectivity.Monitor
}

func NewHandler(monitor *connectivity.Monitor) *Handler {
	return &Handler{Monitor: monitor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	online := middleware.RequireOnline(h.Monitor)
	read := middleware.RequirePermission(auth.PermEmployeesRead)
	write := middleware.RequirePermission(auth.PermEmployeesWrite)

	r.Post("/sync", h.handleSync)
	r.With(read).Get("/dashboard", h.handleDashboard)

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployees)
		r.With(online, write).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetEmployee)
			r.With(online, write).Put("/", h.handleUpdateEmployee)
			r.With(online, write).Patch("/", h.handleSetStatus)
			r.With(online, middleware.RequirePermission(auth.PermEmployeesDelete)).Delete("/", h.handleDeleteEmployee)
			r.With(read).Get("/events", h.handleEmployeeEvents)
			r.With(read).Get("/documents", h.handleEmployeeDocuments)
			r.With(read).Get("/dossier.pdf", h.handleDossier)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Use(online, middleware.RequirePermission(auth.PermEventsWrite))
		r.Post("/", h.handleCreateEvent)
		r.Put("/{eventID}", h.handleUpdateEvent)
		r.Delete("/{eventID}", h.handleDeleteEvent)
	})

	r.Route("/documents", func(r chi.Router) {
		r.With(read).Get("/", h.handleListDocuments)
		r.With(online, middleware.RequirePermission(auth.PermDocumentsWrite)).Post("/", h.handleCreateDocument)
		r.With(online, middleware.RequirePermission(auth.PermDocumentsWrite)).Delete("/{documentID}", h.handleDeleteDocument)
	})
}

// writeResult is the body of every successful write: the stored item and
// the notification the action raised.
type writeResult struct {
	Item         any                  `json:"item,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func current(ws *workspace.Workspace) *notify.Notification {
	n, ok := ws.Guard().Current()
	if !ok {
		return nil
	}
	return &n
}

func workspaceFrom(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return ws, true
}

// handleSync re-probes the store before reloading, so it is also the way
// back online after an outage.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	if err := ws.Start(r.Context()); err != nil {
		shared.FailStore(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, ws.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	api.Success(w, ws.Dashboard(), middleware.GetRequestID(r.Context()))
}

// decodePatch reads a partial update. The identity field is never
// patched and nil values are dropped so they cannot clear a column.
func decodePatch(w http.ResponseWriter, r *http.Request, reqID string) (record.Record, bool) {
	var patch record.Record
	if !shared.DecodeJSON(w, r, &patch, reqID) {
		return nil, false
	}
	if patch == nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "payload must be a JSON object", reqID)
		return nil, false
	}
	return record.Sanitize(record.Without(patch, "id")), true
}
