// Package workspace holds the per-operator application state: the cached
// employee and event lists, the notification slot and the actions that
// keep them in step with the store.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gourmetto/internal/domain/classify"
	"gourmetto/internal/domain/gateway"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/domain/notify"
	"gourmetto/internal/domain/record"
	"gourmetto/internal/platform/connectivity"
)

var (
	ErrOffline       = errors.New("store is offline")
	ErrInvalidStatus = errors.New("invalid employee status")
)

const syncFailurePrefix = "Erro de sincronização: "

// Store is the subset of the gateway the workspace drives.
type Store interface {
	Probe(ctx context.Context) bool
	FetchAll(ctx context.Context, c gateway.Collection) ([]record.Record, error)
	FetchWhere(ctx context.Context, c gateway.Collection, column, value string) ([]record.Record, error)
	Create(ctx context.Context, c gateway.Collection, rec record.Record) (record.Record, error)
	Update(ctx context.Context, c gateway.Collection, id string, patch record.Record) (record.Record, error)
	Delete(ctx context.Context, c gateway.Collection, id string) error
}

type Option func(*Workspace)

func WithGuardOptions(opts ...notify.Option) Option {
	return func(w *Workspace) {
		w.guardOpts = append(w.guardOpts, opts...)
	}
}

// WithFailureHook sees the classification of every failed store call.
func WithFailureHook(fn func(classify.Kind)) Option {
	return func(w *Workspace) {
		w.onFailure = fn
	}
}

type Snapshot struct {
	Employees []hr.Employee `json:"employees"`
	Events    []hr.Event    `json:"events"`
	LoadedAt  time.Time     `json:"loadedAt"`
	Loading   bool          `json:"loading"`
}

type Workspace struct {
	User hr.AppUser

	store     Store
	conn      *connectivity.Monitor
	guard     *notify.Guard
	guardOpts []notify.Option
	onFailure func(classify.Kind)

	mu        sync.RWMutex
	employees []hr.Employee
	events    []hr.Event
	loading   bool
	loadedAt  time.Time
}

func New(user hr.AppUser, store Store, conn *connectivity.Monitor, opts ...Option) *Workspace {
	w := &Workspace{
		User:      user,
		store:     store,
		conn:      conn,
		employees: []hr.Employee{},
		events:    []hr.Event{},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.guard = notify.New(w.guardOpts...)
	return w
}

func (w *Workspace) Guard() *notify.Guard {
	return w.guard
}

// Start probes the store and loads everything when it answers. When the
// probe fails nothing is fetched and ErrOffline is returned.
func (w *Workspace) Start(ctx context.Context) error {
	if !w.conn.Check(ctx) {
		return ErrOffline
	}
	return w.Load(ctx)
}

// Load fetches employees and events in parallel. Both must succeed for
// either list to be replaced. A failure keeps the store offline until a
// later Load succeeds, whatever the periodic probe reports.
func (w *Workspace) Load(ctx context.Context) error {
	w.setLoading(true)
	defer w.setLoading(false)

	var employees []hr.Employee
	var events []hr.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := w.store.FetchAll(gctx, gateway.Employees)
		if err != nil {
			return err
		}
		employees, err = decodeAll[hr.Employee](rows)
		return err
	})
	g.Go(func() error {
		rows, err := w.store.FetchAll(gctx, gateway.Events)
		if err != nil {
			return err
		}
		events, err = decodeAll[hr.Event](rows)
		return err
	})
	if err := g.Wait(); err != nil {
		w.conn.MarkOffline("initial load failed")
		w.report(err)
		w.guard.FailWith(syncFailurePrefix, err)
		return err
	}

	w.mu.Lock()
	w.employees = employees
	w.events = events
	w.loadedAt = time.Now()
	w.mu.Unlock()
	w.conn.MarkLoaded()
	return nil
}

func (w *Workspace) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		Employees: append([]hr.Employee(nil), w.employees...),
		Events:    append([]hr.Event(nil), w.events...),
		LoadedAt:  w.loadedAt,
		Loading:   w.loading,
	}
}

// Employees applies the roster search and status filter.
func (w *Workspace) Employees(search, status string) []hr.Employee {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return hr.FilterEmployees(w.employees, search, status)
}

func (w *Workspace) Employee(id string) (hr.Employee, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, emp := range w.employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return hr.Employee{}, false
}

func (w *Workspace) Events() []hr.Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]hr.Event(nil), w.events...)
}

func (w *Workspace) EmployeeEvents(employeeID string) []hr.Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return hr.EventsFor(w.events, employeeID)
}

func (w *Workspace) Dashboard() hr.Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return hr.Summarize(w.employees, w.events)
}

func (w *Workspace) Close() {
	w.guard.Close()
}

func (w *Workspace) setLoading(v bool) {
	w.mu.Lock()
	w.loading = v
	w.mu.Unlock()
}

// fail raises the failure in the notification slot and hands it back.
func (w *Workspace) fail(err error) error {
	w.report(err)
	w.guard.Fail(err)
	return err
}

func (w *Workspace) report(err error) {
	if w.onFailure != nil {
		w.onFailure(classify.Classify(err))
	}
}

func decodeAll[T any](rows []record.Record) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := record.Decode(row, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
