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

type TaskQuery struct {
	Completed *bool
}

type TaskService struct {
	repo   domain.TaskRepository
	now    Clock
	logger *slog.Logger
	tracer trace.Tracer
}

func NewTaskService(repo domain.TaskRepository, clock Clock, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		now:    clock,
		logger: logger.With("component", "task-service"),
		tracer: otel.Tracer("job-tracker-usecase"),
	}
}

// List returns tasks by due date.
func (s *TaskService) List(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListTasks")
	defer span.End()

	tasks, err := s.repo.List(ctx, domain.TaskFilter{Completed: q.Completed})
	recordError(span, err, "failed to list tasks from repository")
	return tasks, err
}

// Create stores a new task. dueDate defaults to now.
func (s *TaskService) Create(ctx context.Context, p *domain.TaskPatch) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateTask")
	defer span.End()

	now := stamp(s.now)
	changes := p.Changes(now.Location())
	completion(changes, p.Completed, p.CompletedDate, false, now)

	task := &domain.Task{}
	if err := domain.Merge(task, changes); err != nil {
		return nil, fmt.Errorf("failed to build task: %w", err)
	}
	if task.DueDate.IsZero() {
		task.DueDate = now
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, task); err != nil {
		recordError(span, err, "failed to save task to repository")
		return nil, err
	}
	span.SetAttributes(attribute.String("task.id", task.ID))
	s.logger.Info("task created", "task_id", task.ID)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	task, err := s.repo.Get(ctx, id)
	recordError(span, err, "failed to get task from repository")
	return task, err
}

// Update merges p. Toggling completed without a completedDate stamps or
// clears the date.
func (s *TaskService) Update(ctx context.Context, id string, p *domain.TaskPatch) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		recordError(span, err, "failed to get task from repository")
		return nil, err
	}

	now := stamp(s.now)
	changes := p.Changes(now.Location())
	completion(changes, p.Completed, p.CompletedDate, current.Completed, now)
	changes["updatedAt"] = now

	task, err := s.repo.Update(ctx, id, changes)
	recordError(span, err, "failed to update task in repository")
	return task, err
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	err := s.repo.Delete(ctx, id)
	recordError(span, err, "failed to delete task from repository")
	return err
}
