package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InterviewQuery carries the list parameters accepted for interviews.
type InterviewQuery struct {
	// Upcoming limits the result to open interviews from now on.
	Upcoming  bool
	Completed *bool
}

type InterviewService struct {
	repo   domain.InterviewRepository
	now    Clock
	logger *slog.Logger
	tracer trace.Tracer
}

func NewInterviewService(repo domain.InterviewRepository, clock Clock, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		repo:   repo,
		now:    clock,
		logger: logger.With("component", "interview-service"),
		tracer: otel.Tracer("job-tracker-usecase"),
	}
}

// List returns interviews in chronological order.
func (s *InterviewService) List(ctx context.Context, q InterviewQuery) ([]*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListInterviews")
	defer span.End()
	span.SetAttributes(attribute.Bool("filter.upcoming", q.Upcoming))

	filter := domain.InterviewFilter{Completed: q.Completed}
	if q.Upcoming {
		upcoming := domain.Since(s.now())
		filter.Date = &upcoming
		filter.Completed = boolPtr(false)
	}

	interviews, err := s.repo.List(ctx, filter)
	recordError(span, err, "failed to list interviews from repository")
	return interviews, err
}

// Create stores a new interview. interviewDate defaults to now.
func (s *InterviewService) Create(ctx context.Context, p *domain.InterviewPatch) (*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateInterview")
	defer span.End()

	interview := &domain.Interview{}
	if err := domain.Merge(interview, p.Changes(s.now.Location())); err != nil {
		return nil, fmt.Errorf("failed to build interview: %w", err)
	}
	now := stamp(s.now)
	if interview.InterviewDate.IsZero() {
		interview.InterviewDate = now
	}
	interview.CreatedAt = now
	interview.UpdatedAt = now

	if err := s.repo.Create(ctx, interview); err != nil {
		recordError(span, err, "failed to save interview to repository")
		return nil, err
	}
	span.SetAttributes(attribute.String("interview.id", interview.ID))
	s.logger.Info("interview created", "interview_id", interview.ID, "job_id", interview.JobID)
	return interview, nil
}

func (s *InterviewService) Get(ctx context.Context, id string) (*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetInterview")
	defer span.End()
	span.SetAttributes(attribute.String("interview.id", id))

	interview, err := s.repo.Get(ctx, id)
	recordError(span, err, "failed to get interview from repository")
	return interview, err
}

func (s *InterviewService) Update(ctx context.Context, id string, p *domain.InterviewPatch) (*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateInterview")
	defer span.End()
	span.SetAttributes(attribute.String("interview.id", id))

	changes := p.Changes(s.now.Location())
	changes["updatedAt"] = stamp(s.now)

	interview, err := s.repo.Update(ctx, id, changes)
	recordError(span, err, "failed to update interview in repository")
	return interview, err
}

func (s *InterviewService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteInterview")
	defer span.End()
	span.SetAttributes(attribute.String("interview.id", id))

	err := s.repo.Delete(ctx, id)
	recordError(span, err, "failed to delete interview from repository")
	return err
}
