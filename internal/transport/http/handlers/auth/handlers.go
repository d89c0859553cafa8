package authhandler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"gourmetto/internal/app/workspace"
	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/platform/sessions"
	"gourmetto/internal/transport/http/api"
	"gourmetto/internal/transport/http/middleware"
	"gourmetto/internal/transport/http/shared"
)

const invalidCredentials = "Credenciais inválidas ou erro de conexão."

type Users interface {
	Authenticate(ctx context.Context, email, password string) (*hr.AppUser, bool)
	RegisterUser(ctx context.Context, name, email, password, role string) (*hr.AppUser, error)
}

type Handler struct {
	Users      Users
	Sessions   sessions.Store
	Workspaces *workspace.Registry
	Secret     string
	TTL        time.Duration
}

func NewHandler(users Users, store sessions.Store, registry *workspace.Registry, secret string, ttl time.Duration) *Handler {
	return &Handler{Users: users, Sessions: store, Workspaces: registry, Secret: secret, TTL: ttl}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/auth/register", h.HandleRegister)
	r.Get("/me", h.HandleMe)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=Gerente Gestor"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, reqID) {
		return
	}

	user, ok := h.Users.Authenticate(r.Context(), payload.Email, payload.Password)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", invalidCredentials, reqID)
		return
	}

	sess := sessions.Session{ID: auth.NewSessionID(), User: *user, ExpiresAt: time.Now().Add(h.TTL)}
	if err := h.Sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("session save failed")
		api.Fail(w, http.StatusServiceUnavailable, "session_error", "failed to start session", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sess.ID,
	}, h.TTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	ws, _ := h.Workspaces.Open(sess.ID, *user)
	ws.Guard().Success("Bem-vindo, " + user.Name)
	if err := ws.Start(r.Context()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("initial load failed")
	}

	note, _ := ws.Guard().Current()
	api.Success(w, map[string]any{
		"token":        token,
		"expiresAt":    sess.ExpiresAt,
		"user":         user,
		"notification": note,
		"snapshot":     ws.Snapshot(),
	}, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if claims, ok := middleware.GetClaims(r.Context()); ok && claims.SessionID != "" {
		if err := h.Sessions.Delete(r.Context(), claims.SessionID); err != nil {
			log.Warn().Err(err).Str("user_id", claims.UserID).Msg("logout session revoke failed")
		}
		h.Workspaces.Close(claims.SessionID)
	}
	api.Success(w, map[string]string{"status": "logged_out"}, reqID)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Users.RegisterUser(r.Context(), strings.TrimSpace(payload.Name), payload.Email, payload.Password, payload.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
			return
		}
		shared.FailStore(w, err, reqID)
		return
	}
	api.Created(w, user, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	ws, ok := middleware.GetWorkspace(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	perms := auth.RolePermissions[ws.User.Role]
	api.Success(w, map[string]any{
		"user":        ws.User,
		"permissions": perms,
	}, reqID)
}
