package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Task is a unit of recurring work. The context is cancelled when the
// scheduler stops.
type Task func(ctx context.Context) error

// CronScheduler runs named tasks on six-field cron expressions (with
// seconds).
type CronScheduler struct {
	cron   *cron.Cron
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
	runCtx context.Context
	logger *slog.Logger
	tracer trace.Tracer
}

func NewCronScheduler(loc *time.Location, logger *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &CronScheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		jobs:   make(map[string]cron.EntryID),
		runCtx: context.Background(),
		logger: logger.With("component", "cron-scheduler"),
		tracer: otel.Tracer("job-tracker-scheduler"),
	}
}

// Start runs the scheduler until ctx is done, then waits for running tasks.
// It may be called again after it returns.
func (s *CronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	s.logger.Info("cron scheduler started")
	s.cron.Start()
	<-ctx.Done()
	s.logger.Info("cron scheduler stopping...")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("cron scheduler stopped")
	return ctx.Err()
}

// AddJob schedules task under name, replacing an earlier entry of the same
// name.
func (s *CronScheduler) AddJob(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.jobs[name]; ok {
		s.cron.Remove(entryID)
	}

	entryID, err := s.cron.AddJob(spec, &cronJobWrapper{
		name:   name,
		task:   task,
		parent: s.runContext,
		logger: s.logger.With("job_name", name),
		tracer: s.tracer,
	})
	if err != nil {
		s.logger.Error("failed to add job to cron", "job_name", name, "error", err)
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added job to scheduler", "job_name", name, "schedule", spec)
	return nil
}

// RemoveJob removes a job from the scheduler.
func (s *CronScheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.jobs[name]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Info("removed job from scheduler", "job_name", name)
	}
}

// Next returns the next activation of name, or false if it is not scheduled.
func (s *CronScheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	entryID, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

func (s *CronScheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCtx
}

type cronJobWrapper struct {
	name   string
	task   Task
	parent func() context.Context
	logger *slog.Logger
	tracer trace.Tracer
}

// Run is called by the cron library. Each run starts a new trace.
func (w *cronJobWrapper) Run() {
	ctx, span := w.tracer.Start(w.parent(), "scheduler.Run",
		trace.WithNewRoot(),
		trace.WithAttributes(attribute.String("job.name", w.name)))
	defer span.End()

	w.logger.Info("running scheduled job")
	if err := w.task(ctx); err != nil {
		w.logger.Error("scheduled job failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "scheduled job failed")
	}
}
