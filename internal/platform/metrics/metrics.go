package metrics

import (
	"sync/atomic"
	"time"

	"gourmetto/internal/domain/classify"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	offlineRejected uint64
	totalDurationMs uint64
	storeFailures   uint64
	schemaDrift     uint64
	probesOK        uint64
	probesFailed    uint64
	notices         uint64
	blockingNotices uint64
	sessionsSwept   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	if status == 503 {
		atomic.AddUint64(&c.offlineRejected, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// StoreFailure counts a failed gateway call by its classification.
func (c *Collector) StoreFailure(kind classify.Kind) {
	atomic.AddUint64(&c.storeFailures, 1)
	if kind == classify.SchemaDrift {
		atomic.AddUint64(&c.schemaDrift, 1)
	}
}

func (c *Collector) Probe(ok bool) {
	if ok {
		atomic.AddUint64(&c.probesOK, 1)
		return
	}
	atomic.AddUint64(&c.probesFailed, 1)
}

// Notice counts a notification raised to an operator.
func (c *Collector) Notice(blocking bool) {
	atomic.AddUint64(&c.notices, 1)
	if blocking {
		atomic.AddUint64(&c.blockingNotices, 1)
	}
}

// SessionsSwept counts workspaces released because their session expired.
func (c *Collector) SessionsSwept(n int) {
	if n > 0 {
		atomic.AddUint64(&c.sessionsSwept, uint64(n))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          errs,
		"rateLimitedTotal":     limited,
		"offlineRejectedTotal": atomic.LoadUint64(&c.offlineRejected),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"storeFailuresTotal":   atomic.LoadUint64(&c.storeFailures),
		"schemaDriftTotal":     atomic.LoadUint64(&c.schemaDrift),
		"probesOkTotal":        atomic.LoadUint64(&c.probesOK),
		"probesFailedTotal":    atomic.LoadUint64(&c.probesFailed),
		"noticesTotal":         atomic.LoadUint64(&c.notices),
		"blockingNoticesTotal": atomic.LoadUint64(&c.blockingNotices),
		"sessionsSweptTotal":   atomic.LoadUint64(&c.sessionsSwept),
	}
}
