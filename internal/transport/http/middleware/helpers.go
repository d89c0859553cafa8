package middleware

import (
	"net/http"

	"gourmetto/internal/transport/http/api"
)

func failJSON(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	api.Fail(w, status, code, message, GetRequestID(r.Context()))
}
