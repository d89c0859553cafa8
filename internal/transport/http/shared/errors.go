package shared

import (
	"errors"
	"net/http"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/classify"
	"gourmetto/internal/domain/gateway"
	"gourmetto/internal/domain/notify"
	"gourmetto/internal/transport/http/api"
)

// FailStore maps a workspace or gateway failure to an error envelope.
// Schema drift answers 409 with the remediation script attached so the
// client can keep the notice on screen until acknowledged.
func FailStore(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, workspace.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", err.Error(), requestID)
	case errors.Is(err, workspace.ErrOffline):
		api.Fail(w, http.StatusServiceUnavailable, "offline", "store is offline", requestID)
	case classify.IsSchemaDrift(err):
		api.FailBlocking(w, http.StatusConflict, classify.SchemaDrift.String(), classify.Describe(err), notify.RemediationScript(), requestID)
	case gateway.IsRead(err) || gateway.IsWrite(err):
		api.Fail(w, http.StatusBadGateway, "store_error", classify.Describe(err), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
