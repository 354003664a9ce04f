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

type FollowUpQuery struct {
	Completed *bool
}

type FollowUpService struct {
	repo   domain.FollowUpRepository
	now    Clock
	logger *slog.Logger
	tracer trace.Tracer
}

func NewFollowUpService(repo domain.FollowUpRepository, clock Clock, logger *slog.Logger) *FollowUpService {
	return &FollowUpService{
		repo:   repo,
		now:    clock,
		logger: logger.With("component", "follow-up-service"),
		tracer: otel.Tracer("job-tracker-usecase"),
	}
}

// List returns follow-ups by follow-up date.
func (s *FollowUpService) List(ctx context.Context, q FollowUpQuery) ([]*domain.FollowUp, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListFollowUps")
	defer span.End()

	followUps, err := s.repo.List(ctx, domain.FollowUpFilter{Completed: q.Completed})
	recordError(span, err, "failed to list follow-ups from repository")
	return followUps, err
}

// Create stores a new follow-up. followUpDate defaults to now and the
// reminder flag starts cleared.
func (s *FollowUpService) Create(ctx context.Context, p *domain.FollowUpPatch) (*domain.FollowUp, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateFollowUp")
	defer span.End()

	now := stamp(s.now)
	changes := p.Changes(now.Location())
	completion(changes, p.Completed, p.CompletedDate, false, now)

	followUp := &domain.FollowUp{}
	if err := domain.Merge(followUp, changes); err != nil {
		return nil, fmt.Errorf("failed to build follow-up: %w", err)
	}
	if followUp.FollowUpDate.IsZero() {
		followUp.FollowUpDate = now
	}
	followUp.CreatedAt = now
	followUp.UpdatedAt = now

	if err := s.repo.Create(ctx, followUp); err != nil {
		recordError(span, err, "failed to save follow-up to repository")
		return nil, err
	}
	span.SetAttributes(attribute.String("follow_up.id", followUp.ID))
	s.logger.Info("follow-up created", "follow_up_id", followUp.ID, "job_id", followUp.JobID)
	return followUp, nil
}

func (s *FollowUpService) Get(ctx context.Context, id string) (*domain.FollowUp, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetFollowUp")
	defer span.End()
	span.SetAttributes(attribute.String("follow_up.id", id))

	followUp, err := s.repo.Get(ctx, id)
	recordError(span, err, "failed to get follow-up from repository")
	return followUp, err
}

func (s *FollowUpService) Update(ctx context.Context, id string, p *domain.FollowUpPatch) (*domain.FollowUp, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateFollowUp")
	defer span.End()
	span.SetAttributes(attribute.String("follow_up.id", id))

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		recordError(span, err, "failed to get follow-up from repository")
		return nil, err
	}

	now := stamp(s.now)
	changes := p.Changes(now.Location())
	completion(changes, p.Completed, p.CompletedDate, current.Completed, now)
	changes["updatedAt"] = now

	followUp, err := s.repo.Update(ctx, id, changes)
	recordError(span, err, "failed to update follow-up in repository")
	return followUp, err
}

func (s *FollowUpService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteFollowUp")
	defer span.End()
	span.SetAttributes(attribute.String("follow_up.id", id))

	err := s.repo.Delete(ctx, id)
	recordError(span, err, "failed to delete follow-up from repository")
	return err
}
