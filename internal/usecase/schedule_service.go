package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
)

// ScheduleService runs the reminder schedule on whichever replica holds
// leadership, and only there.
type ScheduleService struct {
	election  domain.LeaderElection
	scheduler domain.Scheduler
	retry     time.Duration
	logger    *slog.Logger
}

func NewScheduleService(election domain.LeaderElection, scheduler domain.Scheduler, nodeID string, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{
		election:  election,
		scheduler: scheduler,
		retry:     5 * time.Second,
		logger:    logger.With("component", "schedule-service", "node_id", nodeID),
	}
}

// Start campaigns for leadership and runs the scheduler while leading. It
// campaigns again after losing leadership and returns when ctx is done.
func (s *ScheduleService) Start(ctx context.Context) error {
	s.logger.Info("schedule service starting")
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("schedule service shutting down")
			return err
		}

		s.logger.Info("attempting to campaign for leadership")
		lost, err := s.election.Campaign(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("leadership campaign failed, retrying", "error", err, "retry_in", s.retry)
			select {
			case <-time.After(s.retry):
			case <-ctx.Done():
			}
			continue
		}

		s.logger.Info("became the leader, starting the scheduler")
		s.lead(ctx, lost)
	}
}

// lead runs the scheduler until leadership is lost or ctx ends, then resigns.
func (s *ScheduleService) lead(ctx context.Context, lost <-chan struct{}) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- s.scheduler.Start(runCtx) }()

	select {
	case <-lost:
		s.logger.Warn("leadership lost, stopping the scheduler")
		cancel()
		<-done
	case <-ctx.Done():
		<-done
	case err := <-done:
		s.logger.Error("scheduler stopped unexpectedly", "error", err)
	}
	cancel()

	resignCtx, resignCancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer resignCancel()
	if err := s.election.Resign(resignCtx); err != nil {
		s.logger.Error("failed to resign leadership", "error", err)
	}
}
