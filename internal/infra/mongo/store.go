// Package mongo stores tracker records in MongoDB, one collection per entity.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	colJobs       = "jobs"
	colInterviews = "interviews"
	colTasks      = "tasks"
	colFollowUps  = "follow_ups"
)

// Store builds repositories on a shared Connector.
type Store struct {
	conn   *Connector
	logger *slog.Logger
}

func NewStore(conn *Connector, logger *slog.Logger) *Store {
	return &Store{conn: conn, logger: logger.With("component", "mongo-store")}
}

// Repositories returns the four repositories. Nothing connects until the
// first query.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{
		Jobs: &jobRepository{newCollection[domain.Job](s.conn, colJobs,
			bson.D{{Key: "lastUpdated", Value: -1}})},
		Interviews: &interviewRepository{newCollection[domain.Interview](s.conn, colInterviews,
			bson.D{{Key: "interviewDate", Value: 1}, {Key: "interviewTime", Value: 1}})},
		Tasks: &taskRepository{newCollection[domain.Task](s.conn, colTasks,
			bson.D{{Key: "dueDate", Value: 1}})},
		FollowUps: &followUpRepository{newCollection[domain.FollowUp](s.conn, colFollowUps,
			bson.D{{Key: "followUpDate", Value: 1}})},
	}
}

// Migrate creates the indexes used by listing, statistics and the sweep.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := s.conn.Database(ctx)
	if err != nil {
		return err
	}
	for col, models := range migrationIndexes() {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("migrate %s indexes: %w", col, err)
		}
		s.logger.Debug("indexes ensured", "collection", col, "count", len(models))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colJobs: {
			{Keys: bson.D{{Key: "lastUpdated", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "appliedDate", Value: 1}}},
		},
		colInterviews: {
			{Keys: bson.D{{Key: "interviewDate", Value: 1}, {Key: "interviewTime", Value: 1}}},
			{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "interviewDate", Value: 1}}},
		},
		colTasks: {
			{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "dueDate", Value: 1}}},
		},
		colFollowUps: {
			{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "followUpDate", Value: 1}},
				Options: options.Index().SetName("followup_due")},
		},
	}
}

type statusCount struct {
	Status domain.JobStatus `bson:"_id"`
	Count  int64            `bson:"count"`
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
	return r.c.find(ctx, jobFilter(filter))
}

func (r *jobRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Job, error) {
	return r.c.update(ctx, id, changes)
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *jobRepository) Count(ctx context.Context, filter domain.JobFilter) (int64, error) {
	return r.c.count(ctx, jobFilter(filter))
}

func (r *jobRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int64, error) {
	ctx, span := r.c.start(ctx, "CountByStatus")
	defer span.End()

	col, err := r.c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return nil, err
	}
	pipeline := mongod.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		fail(span, err, "aggregate failed")
		return nil, fmt.Errorf("failed to group jobs by status: %w", err)
	}
	var rows []statusCount
	if err := cursor.All(ctx, &rows); err != nil {
		fail(span, err, "decode failed")
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[domain.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] += row.Count
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
	return r.c.find(ctx, interviewFilter(filter))
}

func (r *interviewRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Interview, error) {
	return r.c.update(ctx, id, changes)
}

func (r *interviewRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *interviewRepository) Count(ctx context.Context, filter domain.InterviewFilter) (int64, error) {
	return r.c.count(ctx, interviewFilter(filter))
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
	return r.c.find(ctx, taskFilter(filter))
}

func (r *taskRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Task, error) {
	return r.c.update(ctx, id, changes)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *taskRepository) Count(ctx context.Context, filter domain.TaskFilter) (int64, error) {
	return r.c.count(ctx, taskFilter(filter))
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
	return r.c.find(ctx, followUpFilter(filter))
}

func (r *followUpRepository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.FollowUp, error) {
	return r.c.update(ctx, id, changes)
}

func (r *followUpRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *followUpRepository) Count(ctx context.Context, filter domain.FollowUpFilter) (int64, error) {
	return r.c.count(ctx, followUpFilter(filter))
}
