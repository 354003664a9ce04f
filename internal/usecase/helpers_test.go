package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/docstore"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/memory"
)

// Wednesday afternoon.
var fixedNow = time.Date(2024, 6, 12, 15, 0, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRepos() *domain.Repositories {
	return docstore.New(memory.NewKV(), discardLogger())
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []domain.Message
	// failSubject makes Send fail for subjects containing it.
	failSubject string
}

func (n *stubNotifier) Send(_ context.Context, msg domain.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failSubject != "" && strings.Contains(msg.Subject, n.failSubject) {
		return errors.New("smtp: connection reset")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *stubNotifier) subjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Subject)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")

// brokenTasks fails every list call.
type brokenTasks struct {
	domain.TaskRepository
}

func (brokenTasks) List(context.Context, domain.TaskFilter) ([]*domain.Task, error) {
	return nil, errStoreDown
}

func (brokenTasks) Count(context.Context, domain.TaskFilter) (int64, error) {
	return 0, errStoreDown
}
