package middleware

import (
	"net/http"

	"gourmetto/internal/platform/connectivity"
)

// RequireOnline refuses mutations while the store is known to be
// offline. Reads still go through so cached lists stay visible.
func RequireOnline(monitor *connectivity.Monitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if monitor.State() == connectivity.Offline {
				failJSON(w, r, http.StatusServiceUnavailable, "offline", "store is offline")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
