package docstore

import (
	"cmp"
	"context"
	"log/slog"
	"strings"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
)

// Collection names shared with the Mongo store.
const (
	JobsCollection       = "jobs"
	InterviewsCollection = "interviews"
	TasksCollection      = "tasks"
	FollowUpsCollection  = "follow_ups"
)

// New builds every repository on top of kv.
func New(kv KV, logger *slog.Logger) *domain.Repositories {
	logger = logger.With("component", "docstore")
	return &domain.Repositories{
		Jobs:       &jobRepository{newCollection[domain.Job](kv, JobsCollection, byLastUpdatedDesc, logger)},
		Interviews: &interviewRepository{newCollection[domain.Interview](kv, InterviewsCollection, byInterviewSlot, logger)},
		Tasks:      &taskRepository{newCollection[domain.Task](kv, TasksCollection, byDueDate, logger)},
		FollowUps:  &followUpRepository{newCollection[domain.FollowUp](kv, FollowUpsCollection, byFollowUpDate, logger)},
	}
}

func byLastUpdatedDesc(a, b *domain.Job) int {
	return b.LastUpdated.Compare(a.LastUpdated)
}

func byInterviewSlot(a, b *domain.Interview) int {
	return cmp.Or(a.InterviewDate.Compare(b.InterviewDate), strings.Compare(a.InterviewTime, b.InterviewTime))
}

func byDueDate(a, b *domain.Task) int {
	return a.DueDate.Compare(b.DueDate)
}

func byFollowUpDate(a, b *domain.FollowUp) int {
	return a.FollowUpDate.Compare(b.FollowUpDate)
}

type jobRepository struct {
	c *collection[domain.Job, *domain.Job]
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.c.create(ctx, job)
}

func (r *jobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	return r.c.get(ctx, id)
}

func (r *jobRepository) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error) {
	return r.c.list(ctx, filter.Matches)
}

func (r *jobRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Job, error) {
	return r.c.update(ctx, id, changes)
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *jobRepository) Count(ctx context.Context, filter domain.JobFilter) (int64, error) {
	return r.c.count(ctx, filter.Matches)
}

func (r *jobRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int64, error) {
	jobs, err := r.c.list(ctx, func(*domain.Job) bool { return true })
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.JobStatus]int64)
	for _, job := range jobs {
		counts[job.Status]++
	}
	return counts, nil
}

type interviewRepository struct {
	c *collection[domain.Interview, *domain.Interview]
}

func (r *interviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	return r.c.create(ctx, interview)
}

func (r *interviewRepository) Get(ctx context.Context, id string) (*domain.Interview, error) {
	return r.c.get(ctx, id)
}

func (r *interviewRepository) List(ctx context.Context, filter domain.InterviewFilter) ([]*domain.Interview, error) {
	return r.c.list(ctx, filter.Matches)
}

func (r *interviewRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Interview, error) {
	return r.c.update(ctx, id, changes)
}

func (r *interviewRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *interviewRepository) Count(ctx context.Context, filter domain.InterviewFilter) (int64, error) {
	return r.c.count(ctx, filter.Matches)
}

type taskRepository struct {
	c *collection[domain.Task, *domain.Task]
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.c.create(ctx, task)
}

func (r *taskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	return r.c.get(ctx, id)
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	return r.c.list(ctx, filter.Matches)
}

func (r *taskRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Task, error) {
	return r.c.update(ctx, id, changes)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *taskRepository) Count(ctx context.Context, filter domain.TaskFilter) (int64, error) {
	return r.c.count(ctx, filter.Matches)
}

type followUpRepository struct {
	c *collection[domain.FollowUp, *domain.FollowUp]
}

func (r *followUpRepository) Create(ctx context.Context, followUp *domain.FollowUp) error {
	return r.c.create(ctx, followUp)
}

func (r *followUpRepository) Get(ctx context.Context, id string) (*domain.FollowUp, error) {
	return r.c.get(ctx, id)
}

func (r *followUpRepository) List(ctx context.Context, filter domain.FollowUpFilter) ([]*domain.FollowUp, error) {
	return r.c.list(ctx, filter.Matches)
}

func (r *followUpRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.FollowUp, error) {
	return r.c.update(ctx, id, changes)
}

func (r *followUpRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *followUpRepository) Count(ctx context.Context, filter domain.FollowUpFilter) (int64, error) {
	return r.c.count(ctx, filter.Matches)
}
