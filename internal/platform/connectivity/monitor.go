// Package connectivity tracks whether the relational store is reachable.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type State string

const (
	Checking State = "checking"
	Online   State = "online"
	Offline  State = "offline"
)

// ProbeJob names the periodic probe in the job runner.
const ProbeJob = "store_probe"

type Prober interface {
	Probe(ctx context.Context) bool
}

type Status struct {
	State     State     `json:"state"`
	ChangedAt time.Time `json:"changedAt"`
	CheckedAt time.Time `json:"checkedAt,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type Option func(*Monitor)

// WithTimeout bounds a single probe.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithProbeHook is called after every probe with its result.
func WithProbeHook(fn func(ok bool)) Option {
	return func(m *Monitor) {
		m.onProbe = fn
	}
}

type Monitor struct {
	prober  Prober
	timeout time.Duration
	onProbe func(bool)
	now     func() time.Time

	mu     sync.RWMutex
	status Status
	// latched holds the state offline after a failed load until a load
	// succeeds; probes alone cannot clear it.
	latched string
}

func New(prober Prober, opts ...Option) *Monitor {
	m := &Monitor{
		prober:  prober,
		timeout: 5 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status = Status{State: Checking, ChangedAt: m.now()}
	return m
}

// Check probes the store and records the outcome. The state reads
// Checking while the probe is in flight. A successful probe leaves the
// state Offline while a load failure is latched; the return value is the
// probe result either way.
func (m *Monitor) Check(ctx context.Context) bool {
	m.set(Checking, "")

	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	ok := m.prober.Probe(probeCtx)
	if m.onProbe != nil {
		m.onProbe(ok)
	}

	m.mu.Lock()
	m.status.CheckedAt = m.now()
	latched := m.latched
	m.mu.Unlock()

	switch {
	case !ok:
		m.set(Offline, "probe failed")
	case latched != "":
		m.set(Offline, latched)
	default:
		m.set(Online, "")
	}
	return ok
}

// MarkOffline records a failure observed outside a probe, such as a
// failed initial load. The store stays offline until MarkLoaded.
func (m *Monitor) MarkOffline(reason string) {
	m.mu.Lock()
	m.latched = reason
	m.mu.Unlock()
	m.set(Offline, reason)
}

// MarkLoaded clears a latched load failure after a complete load.
func (m *Monitor) MarkLoaded() {
	m.mu.Lock()
	m.latched = ""
	m.mu.Unlock()
	m.set(Online, "")
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.State
}

func (m *Monitor) Online() bool {
	return m.State() == Online
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) set(state State, reason string) {
	m.mu.Lock()
	prev := m.status.State
	if prev != state {
		m.status.ChangedAt = m.now()
	}
	m.status.State = state
	m.status.Reason = reason
	m.mu.Unlock()

	if prev != state && state != Checking {
		event := log.Info()
		if state == Offline {
			event = log.Warn()
		}
		event.Str("from", string(prev)).Str("to", string(state)).Str("reason", reason).Msg("store connectivity changed")
	}
}
