package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gourmetto/internal/transport/http/api"
)

// DecodeJSON reads the request body into dst and answers 400 (or 413) on
// failure. It returns false when the handler should stop.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		case errors.Is(err, io.EOF):
			api.Fail(w, http.StatusBadRequest, "invalid_request", "request body is empty", requestID)
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid json payload", requestID)
		}
		return false
	}
	return true
}
