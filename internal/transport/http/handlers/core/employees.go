package corehandler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gourmetto/internal/domain/dossier"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/domain/record"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
	"gourmetto/internal/transport/http/shared"
)

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	items := ws.Employees(query.Get("q"), query.Get("status"))
	page := shared.ParsePagination(r, 0, 500)
	api.Success(w, shared.Page(w, items, page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}

	var payload hr.Employee
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.ID = ""
	payload.Name = strings.TrimSpace(payload.Name)
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	saved, err := ws.CreateEmployee(r.Context(), payload)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Created(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	emp, found := ws.Employee(chi.URLParam(r, "employeeID"))
	if !found {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	patch, ok := decodePatch(w, r, reqID)
	if !ok {
		return
	}
	if !validateEmployeePatch(w, patch, reqID) {
		return
	}

	saved, err := ws.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), patch)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

// validateEmployeePatch checks the fields present in patch against the
// employee rules. Absent fields keep their stored value, so the name
// rule only applies when the patch carries a name.
func validateEmployeePatch(w http.ResponseWriter, patch record.Record, reqID string) bool {
	var probe hr.Employee
	if err := record.Decode(patch, &probe); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid employee payload", reqID)
		return false
	}
	if _, ok := patch["name"]; !ok {
		probe.Name = "-"
	}
	v := shared.NewValidator()
	v.Struct(probe)
	return !v.Reject(w, reqID)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "is required")
	if v.Reject(w, reqID) {
		return
	}

	saved, err := ws.SetStatus(r.Context(), chi.URLParam(r, "employeeID"), payload.Status)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	if err := ws.DeleteEmployee(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Notification: current(ws)}, reqID)
}

func (h *Handler) handleEmployeeEvents(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	api.Success(w, ws.EmployeeEvents(chi.URLParam(r, "employeeID")), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeDocuments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	docs, err := ws.Documents(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, docs, reqID)
}

func (h *Handler) handleDossier(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	emp, found := ws.Employee(chi.URLParam(r, "employeeID"))
	if !found {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}

	var buf bytes.Buffer
	if err := dossier.Render(&buf, emp, ws.Events()); err != nil {
		log.Error().Err(err).Str("employee_id", emp.ID).Str("request_id", reqID).Msg("dossier render failed")
		api.Fail(w, http.StatusInternalServerError, "dossier_failed", "failed to render dossier", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dossie-`+emp.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
