package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record carries the requested identifier.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned for identifiers the store could never have issued.
	ErrInvalidID = errors.New("invalid record id")
	// ErrConflict is returned when a record kept changing under an update.
	ErrConflict = errors.New("record changed concurrently")
)

// TimeRange is the half-open interval [From, To). A zero To leaves the range
// open-ended.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.From) {
		return false
	}
	return r.To.IsZero() || t.Before(r.To)
}

// Repositories groups the four collections of one store.
type Repositories struct {
	Jobs       JobRepository
	Interviews InterviewRepository
	Tasks      TaskRepository
	FollowUps  FollowUpRepository
}

// JobRepository persists Job records.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	// List returns the matching jobs ordered by lastUpdated, newest first.
	List(ctx context.Context, filter JobFilter) ([]*Job, error)
	// Update merges changes into the job and returns the stored result.
	Update(ctx context.Context, id string, changes Changes) (*Job, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter JobFilter) (int64, error)
	// CountByStatus groups all jobs by their status label.
	CountByStatus(ctx context.Context) (map[JobStatus]int64, error)
}

// InterviewRepository persists Interview records.
type InterviewRepository interface {
	Create(ctx context.Context, interview *Interview) error
	Get(ctx context.Context, id string) (*Interview, error)
	// List returns the matching interviews ordered by date, then time of day.
	List(ctx context.Context, filter InterviewFilter) ([]*Interview, error)
	Update(ctx context.Context, id string, changes Changes) (*Interview, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter InterviewFilter) (int64, error)
}

// TaskRepository persists Task records.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	// List returns the matching tasks ordered by due date.
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)
	Update(ctx context.Context, id string, changes Changes) (*Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter TaskFilter) (int64, error)
}

// FollowUpRepository persists FollowUp records.
type FollowUpRepository interface {
	Create(ctx context.Context, followUp *FollowUp) error
	Get(ctx context.Context, id string) (*FollowUp, error)
	// List returns the matching follow-ups ordered by follow-up date.
	List(ctx context.Context, filter FollowUpFilter) ([]*FollowUp, error)
	Update(ctx context.Context, id string, changes Changes) (*FollowUp, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter FollowUpFilter) (int64, error)
}

func matchBool(want *bool, got bool) bool {
	return want == nil || *want == got
}

func matchRange(r *TimeRange, t time.Time) bool {
	return r == nil || r.Contains(t)
}
