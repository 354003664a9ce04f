package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := NewCronScheduler(time.UTC, discard())
	if err := s.AddJob("sweep", "every morning", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
	if _, ok := s.Next("sweep"); ok {
		t.Error("invalid job must not be registered")
	}
}

func TestAddJobReplacesAndRemoves(t *testing.T) {
	s := NewCronScheduler(time.UTC, discard())
	noop := func(context.Context) error { return nil }

	if err := s.AddJob("sweep", "0 0 9 * * *", noop); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := s.AddJob("sweep", "0 30 18 * * *", noop); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Fatalf("entries = %d, want the replacement only", n)
	}

	s.RemoveJob("sweep")
	if _, ok := s.Next("sweep"); ok {
		t.Error("job still scheduled after RemoveJob")
	}
}

func TestScheduledJobRuns(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	s := NewCronScheduler(time.UTC, discard())
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	err := s.AddJob("sweep", "* * * * * *", func(context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return errors.New("smtp down")
	})
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
	cancel()
	if err := <-stopped; !errors.Is(err, context.Canceled) {
		t.Errorf("Start returned %v", err)
	}

	if runs.Load() == 0 {
		t.Fatal("no runs recorded")
	}
	spans := sr.Ended()
	if len(spans) == 0 {
		t.Fatal("no spans recorded")
	}
	if spans[0].Name() != "scheduler.Run" || spans[0].Status().Code != codes.Error {
		t.Errorf("span = %s status %v", spans[0].Name(), spans[0].Status())
	}
}
