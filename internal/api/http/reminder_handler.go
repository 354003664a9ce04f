package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Reminders runs the reminder sweep and the mail configuration check.
type Reminders interface {
	Sweep(ctx context.Context) (*domain.SweepResult, error)
	SendTestEmail(ctx context.Context) error
}

type sweepResponse struct {
	Success bool                `json:"success"`
	Results *domain.SweepResult `json:"results"`
}

// ReminderHandler serves the sweep trigger and the test email.
type ReminderHandler struct {
	reminders Reminders
	secret    string
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewReminderHandler(reminders Reminders, cronSecret string, logger *slog.Logger, tracer trace.Tracer) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		secret:    cronSecret,
		logger:    logger.With("component", "reminder-handler"),
		tracer:    tracer,
	}
}

func (h *ReminderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /send-reminders", instrument(h.tracer, "POST /send-reminders", h.handleSweep))
	mux.Handle("POST /test-email", instrument(h.tracer, "POST /test-email", h.handleTestEmail))
}

// authorized compares the bearer token in constant time. An unset secret
// refuses every caller.
func (h *ReminderHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

func (h *ReminderHandler) handleSweep(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.logger, r)
	if !h.authorized(r) {
		log.Warn("rejected reminder sweep trigger")
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.reminders.Sweep(r.Context())
	switch {
	case errors.Is(err, domain.ErrSweepInProgress):
		writeError(w, http.StatusConflict, "Reminder sweep already running")
		return
	case err != nil:
		log.Error("error sending reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send reminders")
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{Success: true, Results: res})
}

func (h *ReminderHandler) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	err := h.reminders.SendTestEmail(r.Context())
	switch {
	case errors.Is(err, domain.ErrMailDisabled):
		writeError(w, http.StatusBadRequest, "Email not configured. Please set EMAIL_USER and EMAIL_PASSWORD environment variables.")
	case err != nil:
		requestLogger(h.logger, r).Error("error sending test email", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to send test email. Check your email configuration.",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Test email sent successfully!"})
	}
}
