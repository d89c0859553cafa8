// Package notify keeps the single operator-facing notification slot.
package notify

import (
	"sync"
	"time"

	"gourmetto/internal/domain/classify"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const DefaultDismissAfter = 5 * time.Second

type Notification struct {
	Kind        Kind      `json:"type"`
	Text        string    `json:"message"`
	Blocking    bool      `json:"isBlocking"`
	Remediation string    `json:"remediation,omitempty"`
	RaisedAt    time.Time `json:"raisedAt"`
}

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, fn func()) stopper

func realAfterFunc(d time.Duration, fn func()) stopper {
	return time.AfterFunc(d, fn)
}

type Option func(*Guard)

func WithDismissAfter(d time.Duration) Option {
	return func(g *Guard) {
		g.dismissAfter = d
	}
}

// WithObserver registers a callback invoked after every Raise, outside the lock.
func WithObserver(fn func(Notification)) Option {
	return func(g *Guard) {
		g.observer = fn
	}
}

// Guard holds at most one live notification. A new Raise always replaces
// the previous one; only non-blocking notifications expire on their own.
type Guard struct {
	mu           sync.Mutex
	current      *Notification
	seq          uint64
	timer        stopper
	dismissAfter time.Duration
	after        afterFunc
	now          func() time.Time
	observer     func(Notification)
}

func New(opts ...Option) *Guard {
	g := &Guard{
		dismissAfter: DefaultDismissAfter,
		after:        realAfterFunc,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Raise(kind Kind, text string, blocking bool) Notification {
	g.mu.Lock()
	g.stopTimerLocked()
	g.seq++
	n := Notification{Kind: kind, Text: text, Blocking: blocking, RaisedAt: g.now()}
	if blocking {
		n.Remediation = RemediationScript()
	}
	g.current = &n
	if !blocking && g.dismissAfter > 0 {
		seq := g.seq
		g.timer = g.after(g.dismissAfter, func() { g.expire(seq) })
	}
	observer := g.observer
	g.mu.Unlock()

	if observer != nil {
		observer(n)
	}
	return n
}

func (g *Guard) Success(text string) Notification {
	return g.Raise(KindSuccess, text, false)
}

// Fail raises an error notification for err. Schema drift becomes a
// blocking notice carrying the remediation script.
func (g *Guard) Fail(err any) Notification {
	return g.FailWith("", err)
}

func (g *Guard) FailWith(prefix string, err any) Notification {
	text := classify.Describe(err)
	if prefix != "" {
		text = prefix + text
	}
	return g.Raise(KindError, text, classify.IsSchemaDrift(err))
}

func (g *Guard) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimerLocked()
	g.seq++
	g.current = nil
}

func (g *Guard) Current() (Notification, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Notification{}, false
	}
	return *g.current, true
}

// Close stops any pending expiry timer. The slot content is left as is.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimerLocked()
}

func (g *Guard) expire(seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq || g.current == nil || g.current.Blocking {
		return
	}
	g.current = nil
	g.timer = nil
}

func (g *Guard) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
