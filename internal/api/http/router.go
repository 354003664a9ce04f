package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/usecase"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

// APIPrefix mirrors every route for clients that expect an /api base path.
const APIPrefix = "/api"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the use cases exposed over HTTP.
type Services struct {
	Jobs       *usecase.JobService
	Interviews *usecase.InterviewService
	Tasks      *usecase.TaskService
	FollowUps  *usecase.FollowUpService
	Statistics Statistics
	Reminders  Reminders
}

// RouterConfig holds the settings the handlers need beyond the services.
type RouterConfig struct {
	CronSecret string
	Store      Pinger
}

// NewRouter assembles every route and the shared middleware.
func NewRouter(svc Services, cfg RouterConfig, logger *slog.Logger) http.Handler {
	tracer := otel.Tracer("job-tracker-api")
	validate := newValidator()
	logger = logger.With("component", "http")

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /healthz", instrument(tracer, "GET /healthz", healthHandler(cfg.Store, logger)))

	(&resourceHandler[domain.Job, domain.JobPatch, usecase.JobQuery]{
		path: "/jobs", noun: noun{"job", "Job", "jobs"},
		service: svc.Jobs, parseQuery: parseJobQuery,
		validate: validate, logger: logger, tracer: tracer,
	}).RegisterRoutes(mux)
	(&resourceHandler[domain.Interview, domain.InterviewPatch, usecase.InterviewQuery]{
		path: "/interviews", noun: noun{"interview", "Interview", "interviews"},
		service: svc.Interviews, parseQuery: parseInterviewQuery,
		validate: validate, logger: logger, tracer: tracer,
	}).RegisterRoutes(mux)
	(&resourceHandler[domain.Task, domain.TaskPatch, usecase.TaskQuery]{
		path: "/tasks", noun: noun{"task", "Task", "tasks"},
		service: svc.Tasks, parseQuery: parseTaskQuery,
		validate: validate, logger: logger, tracer: tracer,
	}).RegisterRoutes(mux)
	(&resourceHandler[domain.FollowUp, domain.FollowUpPatch, usecase.FollowUpQuery]{
		path: "/follow-ups", noun: noun{"follow-up", "Follow-up", "follow-ups"},
		service: svc.FollowUps, parseQuery: parseFollowUpQuery,
		validate: validate, logger: logger, tracer: tracer,
	}).RegisterRoutes(mux)

	NewStatisticsHandler(svc.Statistics, logger, tracer).RegisterRoutes(mux)
	NewReminderHandler(svc.Reminders, cfg.CronSecret, logger, tracer).RegisterRoutes(mux)

	root := http.NewServeMux()
	root.Handle(APIPrefix+"/", http.StripPrefix(APIPrefix, mux))
	root.Handle("/", mux)

	return requestIDMiddleware(corsMiddleware(root))
}

func healthHandler(store Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			requestLogger(logger, r).Warn("store ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
