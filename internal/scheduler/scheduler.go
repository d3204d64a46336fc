// AngelaMos | 2026
// scheduler.go

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/praxis-app/praxis-api/internal/metrics"
)

// Job is a named unit of background work run every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

// New registers jobs on a gocron scheduler driven by clock. A job never
// overlaps with its own previous run.
func New(clock clockwork.Clock, jobs ...Job) (*Scheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{sched: sched, ctx: ctx, cancel: cancel}

	for _, job := range jobs {
		if err := s.add(job); err != nil {
			cancel()
			_ = sched.Shutdown() //nolint:errcheck // cleanup after failed registration
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job needs a name and a run function")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name)
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(job.Interval),
		gocron.NewTask(func() { s.run(job) }),
		gocron.WithName(job.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name, err)
	}

	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		metrics.SchedulerJobRuns.WithLabelValues(job.Name, "error").Inc()
		slog.ErrorContext(ctx, "scheduled job failed",
			"job", job.Name,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	metrics.SchedulerJobRuns.WithLabelValues(job.Name, "success").Inc()
	slog.DebugContext(ctx, "scheduled job finished", "job", job.Name, "duration", elapsed)
}

func (s *Scheduler) Jobs() []string {
	jobs := s.sched.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.sched.Start()
	slog.Info("scheduler started", "jobs", s.Jobs())
}

// Shutdown cancels running jobs and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}
