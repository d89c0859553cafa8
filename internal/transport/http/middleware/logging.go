package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"gourmetto/internal/platform/metrics"
)

// Logger writes one structured line per request and feeds the collector
// when one is given.
func Logger(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)
			if collector != nil {
				collector.Record(status, dur)
			}

			event := log.Info()
			if status >= 500 {
				event = log.Warn()
			}
			event = event.Str("method", r.Method).Str("path", r.URL.Path).
				Int("status", status).Dur("duration", dur)
			if reqID := GetRequestID(r.Context()); reqID != "" {
				event = event.Str("request_id", reqID)
			}
			if claims, ok := GetClaims(r.Context()); ok {
				event = event.Str("user_id", claims.UserID)
			}
			event.Msg("http_request")
		})
	}
}

// Recoverer turns a panic into a 500 envelope instead of a dropped
// connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).
					Str("request_id", GetRequestID(r.Context())).Msg("handler panic")
				failJSON(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
