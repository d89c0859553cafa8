package corehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gourmetto/internal/domain/hr"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
	"gourmetto/internal/transport/http/shared"
)

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	var payload hr.Event
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.ID = ""
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	saved, err := ws.CreateEvent(r.Context(), payload)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Created(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	patch, ok := decodePatch(w, r, reqID)
	if !ok {
		return
	}
	v := shared.NewValidator()
	if _, present := patch["type"]; present {
		v.Enum("type", patch.String("type"), hr.EventTypes, "must be one of: "+strings.Join(hr.EventTypes, " "))
		if patch.String("type") == "" {
			v.Add("type", "is required")
		}
	}
	if _, present := patch["date"]; present {
		v.Date("date", patch.String("date"))
	}
	if v.Reject(w, reqID) {
		return
	}

	saved, err := ws.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), patch)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	if err := ws.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Notification: current(ws)}, reqID)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	docs, err := ws.Documents(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	page := shared.ParsePagination(r, 0, 500)
	api.Success(w, shared.Page(w, docs, page), reqID)
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	var payload hr.Document
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.ID = ""
	payload.Title = strings.TrimSpace(payload.Title)
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	saved, err := ws.CreateDocument(r.Context(), payload)
	if err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Created(w, writeResult{Item: saved, Notification: current(ws)}, reqID)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := workspaceFrom(w, r)
	if !ok {
		return
	}
	if err := ws.DeleteDocument(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		shared.FailStore(w, err, reqID)
		return
	}
	api.Success(w, writeResult{Notification: current(ws)}, reqID)
}
