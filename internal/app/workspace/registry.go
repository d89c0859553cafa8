package workspace

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"gourmetto/internal/domain/hr"
	"gourmetto/internal/platform/connectivity"
)

// Registry maps live sessions to their workspaces. A workspace exists
// from login until logout or until its session is found expired.
type Registry struct {
	store Store
	conn  *connectivity.Monitor
	opts  []Option

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(store Store, conn *connectivity.Monitor, opts ...Option) *Registry {
	return &Registry{
		store: store,
		conn:  conn,
		opts:  opts,
		items: map[string]*Workspace{},
	}
}

// Open returns the session's workspace, creating it when needed. The
// boolean reports whether it was created by this call.
func (r *Registry) Open(sessionID string, user hr.AppUser) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[sessionID]; ok {
		return ws, false
	}
	ws := New(user, r.store, r.conn, r.opts...)
	r.items[sessionID] = ws
	return ws, true
}

func (r *Registry) Get(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[sessionID]
	return ws, ok
}

func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	ws, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()
	if ok {
		ws.Close()
	}
}

// Sweep closes every workspace whose session is no longer live and
// returns how many were closed. A lookup error keeps the workspace.
func (r *Registry) Sweep(ctx context.Context, live func(ctx context.Context, sessionID string) (bool, error)) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	closed := 0
	for _, id := range ids {
		ok, err := live(ctx, id)
		if err != nil {
			log.Warn().Err(err).Msg("session sweep lookup failed")
			continue
		}
		if !ok {
			r.Close(id)
			closed++
		}
	}
	return closed
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = map[string]*Workspace{}
	r.mu.Unlock()
	for _, ws := range items {
		ws.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
