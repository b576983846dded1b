// Package scheduler runs probe tasks under a single bounded worker pool.
// One scheduler per scan session owns all concurrency: category testers
// submit tasks and never spawn goroutines of their own, so the probe rate
// against a target is capped in exactly one place.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/vantascan/vantascan/pkg/defaults"
)

// Task is one unit of probing work. Run receives the scan context and
// reports failure through its error; failures are isolated and never stop
// sibling tasks.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Stats summarizes one RunAll pass.
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64

	// Skipped counts tasks never started because the context was
	// cancelled before their turn.
	Skipped int64

	// PeakWorkers is the highest number of tasks observed running at
	// once. It never exceeds the configured worker count.
	PeakWorkers int64
}

// Scheduler collects tasks and runs them with bounded parallelism.
type Scheduler struct {
	workers int
	limiter *rate.Limiter
	log     *slog.Logger

	mu    sync.Mutex
	tasks []Task

	inFlight atomic.Int64
	peak     atomic.Int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the worker pool size. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRateLimit caps probes per second across all workers. Zero or
// negative disables the limiter.
func WithRateLimit(rps float64) Option {
	return func(s *Scheduler) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// New builds a scheduler with the standard worker count and rate limit.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		workers: defaults.WorkersStandard,
		limiter: rate.NewLimiter(rate.Limit(defaults.RateLimitDefault), 1),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit queues a task for the next RunAll. Safe for concurrent use.
func (s *Scheduler) Submit(name string, run func(ctx context.Context) error) {
	s.mu.Lock()
	s.tasks = append(s.tasks, Task{Name: name, Run: run})
	s.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunAll drains the queue under the worker bound and blocks until every
// started task returns. Cancellation stops new tasks from launching;
// tasks already running finish on their own (their probes observe the
// same context and fail fast). RunAll always returns stats for the work
// that did happen.
func (s *Scheduler) RunAll(ctx context.Context) Stats {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	stats := Stats{Submitted: int64(len(tasks))}
	if len(tasks) == 0 {
		return stats
	}

	var (
		completed atomic.Int64
		failed    atomic.Int64
	)
	s.peak.Store(0)

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

launch:
	for i, task := range tasks {
		select {
		case <-ctx.Done():
			stats.Skipped = int64(len(tasks) - i)
			break launch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(t Task) {
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					s.log.Error("task panic", "task", t.Name, "panic", r)
				}
				s.inFlight.Add(-1)
				<-sem
				wg.Done()
			}()

			n := s.inFlight.Add(1)
			for {
				old := s.peak.Load()
				if n <= old || s.peak.CompareAndSwap(old, n) {
					break
				}
			}

			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					failed.Add(1)
					return
				}
			}

			if err := t.Run(ctx); err != nil {
				failed.Add(1)
				s.log.Debug("task failed", "task", t.Name, "error", err)
				return
			}
			completed.Add(1)
		}(task)
	}

	wg.Wait()
	stats.Completed = completed.Load()
	stats.Failed = failed.Load()
	stats.PeakWorkers = s.peak.Load()
	return stats
}
