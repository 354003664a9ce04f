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

// JobQuery carries the list parameters accepted for jobs.
type JobQuery struct {
	// Status filters by label; empty and "all" disable the filter.
	Status string
	Search string
}

// JobService implements job application bookkeeping.
type JobService struct {
	repo   domain.JobRepository
	now    Clock
	logger *slog.Logger
	tracer trace.Tracer
}

func NewJobService(repo domain.JobRepository, clock Clock, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		now:    clock,
		logger: logger.With("component", "job-service"),
		tracer: otel.Tracer("job-tracker-usecase"),
	}
}

// List returns jobs, most recently updated first.
func (s *JobService) List(ctx context.Context, q JobQuery) ([]*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListJobs")
	defer span.End()

	filter := domain.JobFilter{Search: q.Search}
	if q.Status != "" && q.Status != "all" {
		filter.Status = domain.JobStatus(q.Status)
	}
	span.SetAttributes(attribute.String("filter.status", string(filter.Status)), attribute.String("filter.search", q.Search))

	jobs, err := s.repo.List(ctx, filter)
	recordError(span, err, "failed to list jobs from repository")
	return jobs, err
}

// Create stores a new job. appliedDate defaults to now.
func (s *JobService) Create(ctx context.Context, p *domain.JobPatch) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateJob")
	defer span.End()

	job := &domain.Job{}
	if err := domain.Merge(job, p.Changes(s.now.Location())); err != nil {
		return nil, fmt.Errorf("failed to build job: %w", err)
	}
	now := stamp(s.now)
	if job.AppliedDate.IsZero() {
		job.AppliedDate = now
	}
	job.LastUpdated = now
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := s.repo.Create(ctx, job); err != nil {
		recordError(span, err, "failed to save job to repository")
		return nil, err
	}
	span.SetAttributes(attribute.String("job.id", job.ID))
	s.logger.Info("job created", "job_id", job.ID, "company", job.Company)
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	job, err := s.repo.Get(ctx, id)
	recordError(span, err, "failed to get job from repository")
	return job, err
}

// Update merges the fields present in p and refreshes lastUpdated.
func (s *JobService) Update(ctx context.Context, id string, p *domain.JobPatch) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	changes := p.Changes(s.now.Location())
	now := stamp(s.now)
	changes["updatedAt"] = now
	changes["lastUpdated"] = now

	job, err := s.repo.Update(ctx, id, changes)
	recordError(span, err, "failed to update job in repository")
	return job, err
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	err := s.repo.Delete(ctx, id)
	recordError(span, err, "failed to delete job from repository")
	if err == nil {
		s.logger.Info("job deleted", "job_id", id)
	}
	return err
}
