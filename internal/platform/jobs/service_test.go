package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLastRunRecordsOutcome(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	s.Start(ctx)
	defer func() {
		cancel()
		s.Wait()
	}()

	require.True(t, s.Enqueue("probe", func(context.Context) (any, error) {
		return true, nil
	}))
	assert.Eventually(t, func() bool {
		run, ok := s.LastRun("probe")
		return ok && run.Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	run, _ := s.LastRun("probe")
	assert.Equal(t, true, run.Details)
	assert.False(t, run.CompletedAt.Before(run.StartedAt))

	require.True(t, s.Enqueue("probe", func(context.Context) (any, error) {
		return false, errors.New("store unreachable")
	}))
	assert.Eventually(t, func() bool {
		run, _ := s.LastRun("probe")
		return run.Status == StatusFailed
	}, time.Second, 5*time.Millisecond)

	run, _ = s.LastRun("probe")
	assert.Equal(t, "store unreachable", run.Error)
}

func TestLastRunOnNilService(t *testing.T) {
	var s *Service
	_, ok := s.LastRun("probe")
	assert.False(t, ok)
}

func TestWorkerDrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	s.Start(ctx)

	var runs atomic.Int32
	for i := 0; i < 3; i++ {
		require.True(t, s.Enqueue("count", func(context.Context) (any, error) {
			runs.Add(1)
			return nil, nil
		}))
	}
	assert.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Wait()
}

func TestEveryRunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	var runs atomic.Int32
	s.Every("tick", 5*time.Millisecond, func(context.Context) (any, error) {
		runs.Add(1)
		return nil, nil
	})
	s.Every("disabled", 0, func(context.Context) (any, error) {
		t.Error("disabled job must not run")
		return nil, nil
	})
	s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()

	_, ok := s.LastRun("disabled")
	assert.False(t, ok)
}
