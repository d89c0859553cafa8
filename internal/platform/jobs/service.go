package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Func func(context.Context) (any, error)

// Run is the outcome of the latest execution of a job type.
type Run struct {
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

type job struct {
	Type string
	Run  Func
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      Func
}

type Service struct {
	queue     chan job
	schedules []schedule
	wg        sync.WaitGroup

	mu   sync.Mutex
	last map[string]Run
}

func New() *Service {
	return &Service{
		queue: make(chan job, 128),
		last:  map[string]Run{},
	}
}

// Every registers a job enqueued on a fixed interval once the service
// starts. A non-positive interval disables it.
func (s *Service) Every(jobType string, interval time.Duration, run Func) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

// Start launches the worker and the schedulers; they stop when ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.worker(ctx)
	for _, sch := range s.schedules {
		s.wg.Add(1)
		go s.tick(ctx, sch)
	}
}

// Wait blocks until every goroutine started by Start has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run Func) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		log.Warn().Str("jobType", jobType).Msg("job queue full")
		return false
	}
}

// LastRun reports the latest completed run of a job type. A nil service
// has none.
func (s *Service) LastRun(jobType string) (Run, bool) {
	if s == nil {
		return Run{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.last[jobType]
	return run, ok
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if err := s.runJob(ctx, j); err != nil {
				log.Warn().Str("jobType", j.Type).Err(err).Msg("job run failed")
			}
		}
	}
}

func (s *Service) tick(ctx context.Context, sch schedule) {
	defer s.wg.Done()
	ticker := time.NewTicker(sch.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sch.jobType, sch.run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) error {
	run := Run{Type: j.Type, StartedAt: time.Now()}
	details, err := j.Run(ctx)
	run.CompletedAt = time.Now()
	run.Details = details
	run.Status = StatusCompleted
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
	}

	s.mu.Lock()
	s.last[j.Type] = run
	s.mu.Unlock()

	log.Debug().Str("jobType", j.Type).Str("status", run.Status).
		Dur("duration", run.CompletedAt.Sub(run.StartedAt)).Msg("job run")
	return err
}
