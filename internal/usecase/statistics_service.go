package usecase

import (
	"context"
	"log/slog"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// StatisticsService computes the dashboard summary from the stores on every
// call.
type StatisticsService struct {
	repos  *domain.Repositories
	now    Clock
	logger *slog.Logger
	tracer trace.Tracer
}

func NewStatisticsService(repos *domain.Repositories, clock Clock, logger *slog.Logger) *StatisticsService {
	return &StatisticsService{
		repos:  repos,
		now:    clock,
		logger: logger.With("component", "statistics-service"),
		tracer: otel.Tracer("job-tracker-usecase"),
	}
}

// Snapshot runs the independent counts concurrently. Any failure fails the
// whole snapshot.
func (s *StatisticsService) Snapshot(ctx context.Context) (*domain.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "service.Statistics")
	defer span.End()

	now := s.now()
	today := domain.Day(now, 0)
	week := domain.Week(now)
	upcoming := domain.Since(now)
	open := boolPtr(false)

	var (
		stats   domain.Statistics
		grouped map[domain.JobStatus]int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalApplications, err = s.repos.Jobs.Count(ctx, domain.JobFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.TodayApplications, err = s.repos.Jobs.Count(ctx, domain.JobFilter{Applied: &today})
		return err
	})
	g.Go(func() (err error) {
		stats.WeekApplications, err = s.repos.Jobs.Count(ctx, domain.JobFilter{Applied: &week})
		return err
	})
	g.Go(func() (err error) {
		grouped, err = s.repos.Jobs.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingInterviews, err = s.repos.Interviews.Count(ctx, domain.InterviewFilter{Completed: open, Date: &upcoming})
		return err
	})
	g.Go(func() (err error) {
		stats.PendingTasks, err = s.repos.Tasks.Count(ctx, domain.TaskFilter{Completed: open})
		return err
	})
	g.Go(func() (err error) {
		stats.PendingFollowUps, err = s.repos.FollowUps.Count(ctx, domain.FollowUpFilter{Completed: open})
		return err
	})
	if err := g.Wait(); err != nil {
		recordError(span, err, "failed to compute statistics")
		return nil, err
	}

	stats.StatusCounts = domain.NewStatusCounts(grouped)
	stats.DailyGoal = domain.DailyGoal
	stats.ProgressPercentage = domain.Progress(stats.TodayApplications)

	span.SetAttributes(
		attribute.Int64("stats.total", stats.TotalApplications),
		attribute.Int64("stats.today", stats.TodayApplications),
	)
	return &stats, nil
}
