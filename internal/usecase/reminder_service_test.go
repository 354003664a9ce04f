package usecase_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/memory"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/metrics"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func seedDueItems(t *testing.T, repos *domain.Repositories) {
	t.Helper()
	ctx := context.Background()
	tomorrow := fixedNow.AddDate(0, 0, 1)

	interviews := []*domain.Interview{
		{Company: "Acme", Position: "Engineer", InterviewDate: tomorrow, InterviewTime: "10:00"},
		{Company: "Done Inc", InterviewDate: tomorrow, Completed: true},
		{Company: "Today Co", InterviewDate: fixedNow},
	}
	for _, iv := range interviews {
		if err := repos.Interviews.Create(ctx, iv); err != nil {
			t.Fatalf("seed interview: %v", err)
		}
	}

	followUps := []*domain.FollowUp{
		{Company: "Globex", Position: "Designer", FollowUpDate: fixedNow, Method: domain.FollowUpMethodEmail},
		{Company: "Initech", FollowUpDate: fixedNow, ReminderSent: true},
		{Company: "Later", FollowUpDate: tomorrow},
	}
	for _, f := range followUps {
		if err := repos.FollowUps.Create(ctx, f); err != nil {
			t.Fatalf("seed follow-up: %v", err)
		}
	}

	tasks := []*domain.Task{
		{Title: "Send portfolio", DueDate: fixedNow, Priority: domain.TaskPriorityHigh},
		{Title: "Finished", DueDate: fixedNow, Completed: true},
		{Title: "Next week", DueDate: fixedNow.AddDate(0, 0, 7)},
	}
	for _, task := range tasks {
		if err := repos.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}
}

func newReminderService(repos *domain.Repositories, n domain.Notifier, cfg usecase.ReminderConfig) *usecase.ReminderService {
	return usecase.NewReminderService(repos, n, memory.NewLocker(), cfg, fixedClock, discardLogger())
}

func TestSweepFollowUpIdempotence(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	seedDueItems(t, repos)
	n := &stubNotifier{}
	svc := newReminderService(repos, n, usecase.ReminderConfig{Recipient: "me@example.com"})

	sentBefore := testutil.ToFloat64(metrics.RemindersTotal.WithLabelValues("follow_up", "sent"))

	first, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	want := domain.SweepResult{InterviewReminders: 1, FollowUpReminders: 1, TaskReminders: 1, Errors: []string{}}
	if !equalResult(*first, want) {
		t.Errorf("first sweep = %+v, want %+v", *first, want)
	}

	second, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	want.FollowUpReminders = 0
	if !equalResult(*second, want) {
		t.Errorf("second sweep = %+v, want %+v", *second, want)
	}

	subjects := n.subjects()
	wantSubjects := []string{
		"Interview Reminder: Acme - Engineer",
		"Follow-up Reminder: Globex - Designer",
		"Task Reminder: Send portfolio",
		"Interview Reminder: Acme - Engineer",
		"Task Reminder: Send portfolio",
	}
	if !slices.Equal(subjects, wantSubjects) {
		t.Errorf("subjects = %q", subjects)
	}

	if got := testutil.ToFloat64(metrics.RemindersTotal.WithLabelValues("follow_up", "sent")) - sentBefore; got != 1 {
		t.Errorf("follow_up sent counter moved by %v, want 1", got)
	}

	flagged, _ := repos.FollowUps.List(ctx, domain.FollowUpFilter{})
	for _, f := range flagged {
		if f.Company == "Globex" && !f.ReminderSent {
			t.Error("follow-up should be marked reminderSent")
		}
		if f.Company == "Later" && f.ReminderSent {
			t.Error("tomorrow's follow-up must not be touched")
		}
	}
}

func TestSweepFailedSendIsRetried(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	seedDueItems(t, repos)
	n := &stubNotifier{failSubject: "Follow-up"}
	svc := newReminderService(repos, n, usecase.ReminderConfig{Recipient: "me@example.com"})

	res, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.FollowUpReminders != 0 || res.InterviewReminders != 1 || res.TaskReminders != 1 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Failed to send follow-up reminder for Globex" {
		t.Errorf("errors = %q", res.Errors)
	}

	n.failSubject = ""
	res, err = svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	if res.FollowUpReminders != 1 {
		t.Errorf("failed follow-up should be retried, got %+v", res)
	}
}

func TestSweepWithoutRecipient(t *testing.T) {
	repos := newRepos()
	seedDueItems(t, repos)
	n := &stubNotifier{}
	svc := newReminderService(repos, n, usecase.ReminderConfig{})

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	want := domain.SweepResult{Errors: []string{}}
	if !equalResult(*res, want) {
		t.Errorf("result = %+v, want empty", *res)
	}
	if len(n.subjects()) != 0 {
		t.Error("nothing should be sent without a recipient")
	}
}

func TestSweepDedupe(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	seedDueItems(t, repos)
	svc := newReminderService(repos, &stubNotifier{}, usecase.ReminderConfig{Recipient: "me@example.com", Dedupe: true})

	if _, err := svc.Sweep(ctx); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	res, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.InterviewReminders != 0 || res.TaskReminders != 0 || res.FollowUpReminders != 0 {
		t.Errorf("dedupe should suppress repeats: %+v", res)
	}
}

func TestSweepLockHeld(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()
	held, err := locker.Lock(ctx, usecase.SweepLockName)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer held.Unlock(ctx)

	svc := usecase.NewReminderService(newRepos(), &stubNotifier{}, locker,
		usecase.ReminderConfig{Recipient: "me@example.com"}, fixedClock, discardLogger())
	if _, err := svc.Sweep(ctx); !errors.Is(err, domain.ErrSweepInProgress) {
		t.Errorf("expected ErrSweepInProgress, got %v", err)
	}
}

func TestSweepStorageFailureAborts(t *testing.T) {
	repos := newRepos()
	seedDueItems(t, repos)
	repos.Tasks = brokenTasks{repos.Tasks}
	svc := newReminderService(repos, &stubNotifier{}, usecase.ReminderConfig{Recipient: "me@example.com"})

	if _, err := svc.Sweep(context.Background()); !errors.Is(err, errStoreDown) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestSweepPacing(t *testing.T) {
	repos := newRepos()
	seedDueItems(t, repos)
	svc := newReminderService(repos, &stubNotifier{}, usecase.ReminderConfig{
		Recipient:    "me@example.com",
		SendInterval: 20 * time.Millisecond,
	})

	start := time.Now()
	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	// Three sends with a burst of one wait at least two intervals.
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("sends were not paced: %v", elapsed)
	}
}

func TestSendTestEmail(t *testing.T) {
	ctx := context.Background()

	disabled := newReminderService(newRepos(), &stubNotifier{}, usecase.ReminderConfig{})
	if err := disabled.SendTestEmail(ctx); !errors.Is(err, domain.ErrMailDisabled) {
		t.Errorf("expected ErrMailDisabled, got %v", err)
	}

	n := &stubNotifier{}
	svc := newReminderService(newRepos(), n, usecase.ReminderConfig{Recipient: "me@example.com"})
	if err := svc.SendTestEmail(ctx); err != nil {
		t.Fatalf("send: %v", err)
	}
	if s := n.subjects(); len(s) != 1 || s[0] != "Job Tracker - Test Email" {
		t.Errorf("subjects = %q", s)
	}
}

func TestReminderTemplatesEscape(t *testing.T) {
	msg, err := usecase.TaskReminder("me@example.com", &domain.Task{
		Title:    `<script>alert(1)</script>`,
		DueDate:  fixedNow,
		Priority: domain.TaskPriorityHigh,
	}, fixedNow.Location())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("task title was not escaped")
	}
	if !strings.Contains(msg.HTML, "HIGH") || !strings.Contains(msg.HTML, "priority-high") {
		t.Error("priority badge missing")
	}
	if !strings.Contains(msg.HTML, "6/12/2024") {
		t.Error("due date missing")
	}
}

func TestReminderDatesUseClockZone(t *testing.T) {
	eastern := time.FixedZone("UTC-5", -5*60*60)
	f := &domain.FollowUp{
		Company:      "Acme",
		Position:     "SRE",
		FollowUpDate: time.Date(2024, 6, 13, 2, 0, 0, 0, time.UTC),
		Method:       domain.FollowUpMethodEmail,
	}

	msg, err := usecase.FollowUpReminder("me@example.com", f, eastern)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg.HTML, "6/12/2024") || strings.Contains(msg.HTML, "6/13/2024") {
		t.Error("follow-up date not rendered as the local calendar day")
	}
}

func equalResult(a, b domain.SweepResult) bool {
	return a.InterviewReminders == b.InterviewReminders &&
		a.FollowUpReminders == b.FollowUpReminders &&
		a.TaskReminders == b.TaskReminders &&
		slices.Equal(a.Errors, b.Errors)
}
