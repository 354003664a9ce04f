package docstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/docstore"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/memory"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newStore() *domain.Repositories {
	return docstore.New(memory.NewKV(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// interleavedKV runs before once, ahead of the first conditional write, to
// stand in for a second writer racing the update.
type interleavedKV struct {
	*memory.KV
	once   sync.Once
	before func()
}

func (k *interleavedKV) CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (bool, error) {
	k.once.Do(k.before)
	return k.KV.CompareAndPut(ctx, key, value, rev)
}

// contendedKV never lets a conditional write through.
type contendedKV struct {
	*memory.KV
	attempts int
}

func (k *contendedKV) CompareAndPut(context.Context, string, []byte, int64) (bool, error) {
	k.attempts++
	return false, nil
}

func TestConcurrentUpdatesKeepBothChanges(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := &interleavedKV{KV: memory.NewKV()}
	store := docstore.New(kv, logger)
	sweeper := docstore.New(kv.KV, logger)

	f := &domain.FollowUp{Company: "Acme", Position: "Engineer"}
	if err := store.FollowUps.Create(ctx, f); err != nil {
		t.Fatalf("create: %v", err)
	}
	kv.before = func() {
		if _, err := sweeper.FollowUps.Update(ctx, f.ID, domain.Changes{"reminderSent": true}); err != nil {
			t.Errorf("racing update: %v", err)
		}
	}

	updated, err := store.FollowUps.Update(ctx, f.ID, domain.Changes{"message": "thanks"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ReminderSent || updated.Message != "thanks" {
		t.Errorf("update result lost a write: %+v", updated)
	}
	got, _ := store.FollowUps.Get(ctx, f.ID)
	if !got.ReminderSent || got.Message != "thanks" {
		t.Errorf("stored document lost a write: %+v", got)
	}
}

func TestUpdateGivesUpUnderContention(t *testing.T) {
	ctx := context.Background()
	kv := &contendedKV{KV: memory.NewKV()}
	store := docstore.New(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))

	task := &domain.Task{Title: "Send portfolio"}
	if err := store.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.Tasks.Update(ctx, task.ID, domain.Changes{"title": "Send resume"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if kv.attempts != 5 {
		t.Errorf("attempts = %d, want 5", kv.attempts)
	}
	got, _ := store.Tasks.Get(ctx, task.ID)
	if got.Title != "Send portfolio" {
		t.Errorf("title = %q, conflicting write must not land", got.Title)
	}
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	job := &domain.Job{Company: "Acme", Position: "Engineer", Status: domain.JobStatusApplied}
	if err := store.Jobs.Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.ID == "" {
		t.Fatal("create did not assign an id")
	}

	updated, err := store.Jobs.Update(ctx, job.ID, domain.Changes{"status": domain.JobStatusInterview})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.JobStatusInterview || updated.Company != "Acme" || updated.ID != job.ID {
		t.Errorf("unexpected merge result: %+v", updated)
	}

	got, err := store.Jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusInterview {
		t.Errorf("status not persisted: %q", got.Status)
	}

	if err := store.Jobs.Delete(ctx, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Jobs.Delete(ctx, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Jobs.Get(ctx, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get after delete: expected ErrNotFound, got %v", err)
	}
}

func TestMalformedID(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	if _, err := store.Tasks.Get(ctx, "not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if _, err := store.Tasks.Update(ctx, "../jobs", domain.Changes{"title": "x"}); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestJobListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	seed := []domain.Job{
		{Company: "Acme", Position: "Engineer", Status: domain.JobStatusApplied, LastUpdated: base},
		{Company: "Globex", Position: "Designer", Status: domain.JobStatusApplied, LastUpdated: base.Add(2 * time.Hour)},
		{Company: "ACME Labs", Position: "Analyst", Status: domain.JobStatusRejected, LastUpdated: base.Add(time.Hour)},
	}
	for i := range seed {
		if err := store.Jobs.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := store.Jobs.List(ctx, domain.JobFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Company != "Globex" || all[2].Company != "Acme" {
		t.Errorf("expected newest first, got %v", companies(all))
	}

	acme, _ := store.Jobs.List(ctx, domain.JobFilter{Search: "acme"})
	if len(acme) != 2 || acme[0].Company != "ACME Labs" {
		t.Errorf("search=acme returned %v", companies(acme))
	}

	counts, err := store.Jobs.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[domain.JobStatusApplied] != 2 || counts[domain.JobStatusRejected] != 1 {
		t.Errorf("unexpected status counts: %v", counts)
	}
}

func TestInterviewOrder(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	for _, iv := range []*domain.Interview{
		{Company: "C", InterviewDate: day.AddDate(0, 0, 1), InterviewTime: "09:00"},
		{Company: "B", InterviewDate: day, InterviewTime: "14:00"},
		{Company: "A", InterviewDate: day, InterviewTime: "10:30"},
	} {
		if err := store.Interviews.Create(ctx, iv); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := store.Interviews.List(ctx, domain.InterviewFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got string
	for _, iv := range list {
		got += iv.Company
	}
	if got != "ABC" {
		t.Errorf("order = %s, want ABC", got)
	}
}

func TestSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	store := newStore()
	if err := store.FollowUps.Create(context.Background(), &domain.FollowUp{Company: "Acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "repo.docstore.Create" {
		t.Fatalf("unexpected spans: %v", spans)
	}
}

func companies(jobs []*domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Company)
	}
	return out
}
