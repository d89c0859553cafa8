package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gourmetto/internal/domain/classify"
)

func TestSnapshotCounts(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(429, 0)
	c.Record(503, 0)
	c.Record(502, 30*time.Millisecond)
	c.StoreFailure(classify.Ordinary)
	c.StoreFailure(classify.SchemaDrift)
	c.Probe(true)
	c.Probe(false)
	c.Probe(false)
	c.Notice(false)
	c.Notice(true)
	c.SessionsSwept(2)
	c.SessionsSwept(0)

	snap := c.Snapshot()
	assert.Equal(t, uint64(4), snap["requestsTotal"])
	assert.Equal(t, uint64(2), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.Equal(t, uint64(1), snap["offlineRejectedTotal"])
	assert.Equal(t, float64(10), snap["avgDurationMs"])
	assert.Equal(t, uint64(2), snap["storeFailuresTotal"])
	assert.Equal(t, uint64(1), snap["schemaDriftTotal"])
	assert.Equal(t, uint64(1), snap["probesOkTotal"])
	assert.Equal(t, uint64(2), snap["probesFailedTotal"])
	assert.Equal(t, uint64(2), snap["noticesTotal"])
	assert.Equal(t, uint64(1), snap["blockingNoticesTotal"])
	assert.Equal(t, uint64(2), snap["sessionsSweptTotal"])
}
