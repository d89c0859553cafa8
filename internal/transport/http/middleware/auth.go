package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/auth"
	"gourmetto/internal/platform/sessions"
	"gourmetto/internal/requestctx"
	"gourmetto/internal/transport/http/api"
)

type ctxKey string

const ctxKeyWorkspace ctxKey = "workspace"

// Auth attaches the claims of a valid bearer token. Requests without one
// pass through untouched; RequireSession decides what needs a login.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests whose token has no live server-side
// session and attaches the session's workspace. A workspace missing
// after a restart is rebuilt and loaded on the spot.
func RequireSession(store sessions.Store, registry *workspace.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())
			claims, ok := GetClaims(r.Context())
			if !ok || claims.SessionID == "" {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
				return
			}

			sess, err := store.Get(r.Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, sessions.ErrNotFound) {
					registry.Close(claims.SessionID)
					api.Fail(w, http.StatusUnauthorized, "unauthorized", "session expired", reqID)
					return
				}
				log.Error().Err(err).Str("request_id", reqID).Msg("session lookup failed")
				api.Fail(w, http.StatusServiceUnavailable, "session_unavailable", "session store unavailable", reqID)
				return
			}

			ws, created := registry.Open(claims.SessionID, sess.User)
			if created {
				if err := ws.Start(r.Context()); err != nil {
					log.Warn().Err(err).Str("user_id", sess.User.ID).Msg("workspace rehydration load failed")
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyWorkspace, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission checks the role carried by the token.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !auth.HasPermission(claims.Role, permission) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	return requestctx.GetClaims(ctx)
}

func GetWorkspace(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(ctxKeyWorkspace).(*workspace.Workspace)
	return ws, ok && ws != nil
}

// WithWorkspace is used by handlers that open a workspace themselves,
// such as login.
func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	return context.WithValue(ctx, ctxKeyWorkspace, ws)
}
