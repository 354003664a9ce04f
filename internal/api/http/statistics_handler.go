package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Statistics computes the dashboard summary.
type Statistics interface {
	Snapshot(ctx context.Context) (*domain.Statistics, error)
}

type StatisticsHandler struct {
	stats  Statistics
	logger *slog.Logger
	tracer trace.Tracer
}

func NewStatisticsHandler(stats Statistics, logger *slog.Logger, tracer trace.Tracer) *StatisticsHandler {
	return &StatisticsHandler{stats: stats, logger: logger.With("component", "statistics-handler"), tracer: tracer}
}

func (h *StatisticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /statistics", instrument(h.tracer, "GET /statistics", h.handleStatistics))
}

func (h *StatisticsHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Snapshot(r.Context())
	if err != nil {
		requestLogger(h.logger, r).Error("error fetching statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
