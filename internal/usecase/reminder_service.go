package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// SweepLockName is the lock serializing reminder sweeps.
const SweepLockName = "reminder-sweep"

// ReminderConfig controls the reminder sweep.
type ReminderConfig struct {
	// Recipient receives every reminder. Empty disables sending.
	Recipient string
	// Dedupe applies the follow-up reminderSent guard to interviews and
	// tasks as well.
	Dedupe bool
	// SendInterval is the minimum gap between two emails. Zero sends
	// back to back.
	SendInterval time.Duration
}

// ReminderService selects due items and emails the user about them.
type ReminderService struct {
	repos    *domain.Repositories
	notifier domain.Notifier
	locker   domain.Locker
	cfg      ReminderConfig
	now      Clock
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewReminderService(repos *domain.Repositories, notifier domain.Notifier, locker domain.Locker, cfg ReminderConfig, clock Clock, logger *slog.Logger) *ReminderService {
	return &ReminderService{
		repos:    repos,
		notifier: notifier,
		locker:   locker,
		cfg:      cfg,
		now:      clock,
		logger:   logger.With("component", "reminder-service"),
		tracer:   otel.Tracer("job-tracker-usecase"),
	}
}

func (s *ReminderService) limiter() *rate.Limiter {
	if s.cfg.SendInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(s.cfg.SendInterval), 1)
}

// sweep is the state of one run.
type sweep struct {
	*ReminderService
	limiter *rate.Limiter
	result  domain.SweepResult
}

// Sweep sends interview reminders for tomorrow and follow-up and task
// reminders for today. A failed send is reported in the result and does not
// stop the run; a storage failure does.
func (s *ReminderService) Sweep(ctx context.Context) (*domain.SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.ReminderSweep")
	defer span.End()

	lock, err := s.locker.Lock(ctx, SweepLockName)
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			s.logger.Warn("reminder sweep skipped, another sweep is running")
			return nil, domain.ErrSweepInProgress
		}
		recordError(span, err, "failed to acquire sweep lock")
		return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("failed to release sweep lock", "error", err)
		}
	}()

	started := time.Now()
	defer func() {
		metrics.ReminderSweepDuration.Observe(time.Since(started).Seconds())
	}()

	now := s.now()
	run := &sweep{ReminderService: s, limiter: s.limiter(), result: domain.SweepResult{Errors: []string{}}}

	for _, pass := range []func(context.Context, time.Time) error{
		run.interviews,
		run.followUps,
		run.tasks,
	} {
		if err := pass(ctx, now); err != nil {
			recordError(span, err, "reminder sweep aborted")
			s.logger.Error("reminder sweep aborted", "error", err)
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("reminders.interviews", run.result.InterviewReminders),
		attribute.Int("reminders.follow_ups", run.result.FollowUpReminders),
		attribute.Int("reminders.tasks", run.result.TaskReminders),
		attribute.Int("reminders.errors", len(run.result.Errors)),
	)
	s.logger.Info("reminder sweep finished",
		"interviews", run.result.InterviewReminders,
		"follow_ups", run.result.FollowUpReminders,
		"tasks", run.result.TaskReminders,
		"errors", len(run.result.Errors))
	return &run.result, nil
}

// send delivers msg and reports whether it went out. A skipped send (no
// recipient) counts as neither success nor failure.
func (r *sweep) send(ctx context.Context, category string, build func(to string) (domain.Message, error)) (sent bool, attempted bool) {
	if r.cfg.Recipient == "" {
		metrics.RemindersTotal.WithLabelValues(category, "skipped").Inc()
		return false, false
	}
	if err := r.limiter.Wait(ctx); err != nil {
		metrics.RemindersTotal.WithLabelValues(category, "failed").Inc()
		return false, true
	}
	msg, err := build(r.cfg.Recipient)
	if err == nil {
		err = r.notifier.Send(ctx, msg)
	}
	if err != nil {
		r.logger.Warn("reminder not delivered", "category", category, "error", err)
		metrics.RemindersTotal.WithLabelValues(category, "failed").Inc()
		return false, true
	}
	metrics.RemindersTotal.WithLabelValues(category, "sent").Inc()
	return true, true
}

func (r *sweep) dedupe() *bool {
	if r.cfg.Dedupe {
		return boolPtr(false)
	}
	return nil
}

func (r *sweep) interviews(ctx context.Context, now time.Time) error {
	tomorrow := domain.Day(now, 1)
	due, err := r.repos.Interviews.List(ctx, domain.InterviewFilter{
		Completed:    boolPtr(false),
		ReminderSent: r.dedupe(),
		Date:         &tomorrow,
	})
	if err != nil {
		return fmt.Errorf("failed to load interviews: %w", err)
	}

	for _, iv := range due {
		sent, attempted := r.send(ctx, "interview", func(to string) (domain.Message, error) {
			return InterviewReminder(to, iv, now.Location())
		})
		switch {
		case sent:
			r.result.InterviewReminders++
			if r.cfg.Dedupe {
				if _, err := r.repos.Interviews.Update(ctx, iv.ID, domain.Changes{"reminderSent": true}); err != nil {
					return fmt.Errorf("failed to mark interview %s reminded: %w", iv.ID, err)
				}
			}
		case attempted:
			r.result.Errors = append(r.result.Errors, "Failed to send interview reminder for "+iv.Company)
		}
	}
	return nil
}

func (r *sweep) followUps(ctx context.Context, now time.Time) error {
	today := domain.Day(now, 0)
	due, err := r.repos.FollowUps.List(ctx, domain.FollowUpFilter{
		Completed:    boolPtr(false),
		ReminderSent: boolPtr(false),
		Date:         &today,
	})
	if err != nil {
		return fmt.Errorf("failed to load follow-ups: %w", err)
	}

	for _, f := range due {
		sent, attempted := r.send(ctx, "follow_up", func(to string) (domain.Message, error) {
			return FollowUpReminder(to, f, now.Location())
		})
		switch {
		case sent:
			r.result.FollowUpReminders++
			changes := domain.Changes{"reminderSent": true, "updatedAt": stamp(r.now)}
			if _, err := r.repos.FollowUps.Update(ctx, f.ID, changes); err != nil {
				return fmt.Errorf("failed to mark follow-up %s reminded: %w", f.ID, err)
			}
		case attempted:
			r.result.Errors = append(r.result.Errors, "Failed to send follow-up reminder for "+f.Company)
		}
	}
	return nil
}

func (r *sweep) tasks(ctx context.Context, now time.Time) error {
	today := domain.Day(now, 0)
	due, err := r.repos.Tasks.List(ctx, domain.TaskFilter{
		Completed:    boolPtr(false),
		ReminderSent: r.dedupe(),
		Due:          &today,
	})
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	for _, t := range due {
		sent, attempted := r.send(ctx, "task", func(to string) (domain.Message, error) {
			return TaskReminder(to, t, now.Location())
		})
		switch {
		case sent:
			r.result.TaskReminders++
			if r.cfg.Dedupe {
				if _, err := r.repos.Tasks.Update(ctx, t.ID, domain.Changes{"reminderSent": true}); err != nil {
					return fmt.Errorf("failed to mark task %s reminded: %w", t.ID, err)
				}
			}
		case attempted:
			r.result.Errors = append(r.result.Errors, "Failed to send task reminder: "+t.Title)
		}
	}
	return nil
}

// SendTestEmail sends the configuration check message to the recipient.
func (s *ReminderService) SendTestEmail(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "service.SendTestEmail")
	defer span.End()

	if s.cfg.Recipient == "" {
		return domain.ErrMailDisabled
	}
	msg, err := TestEmail(s.cfg.Recipient)
	if err != nil {
		recordError(span, err, "failed to render test email")
		return err
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		recordError(span, err, "failed to send test email")
		return err
	}
	return nil
}
