package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/usecase"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// crudService is the shape shared by the four entity services.
type crudService[E, P, Q any] interface {
	List(ctx context.Context, q Q) ([]*E, error)
	Create(ctx context.Context, p *P) (*E, error)
	Get(ctx context.Context, id string) (*E, error)
	Update(ctx context.Context, id string, p *P) (*E, error)
	Delete(ctx context.Context, id string) error
}

// noun names an entity in messages, e.g. "follow-up" / "Follow-up".
type noun struct {
	singular string
	title    string
	plural   string
}

// resourceHandler serves list, create, read, update and delete for one
// entity type.
type resourceHandler[E, P, Q any] struct {
	path       string
	noun       noun
	service    crudService[E, P, Q]
	parseQuery func(url.Values) Q
	validate   *validator.Validate
	logger     *slog.Logger
	tracer     trace.Tracer
}

func (h *resourceHandler[E, P, Q]) RegisterRoutes(mux *http.ServeMux) {
	item := h.path + "/{id}"
	mux.Handle("GET "+h.path, instrument(h.tracer, "GET "+h.path, h.handleList))
	mux.Handle("POST "+h.path, instrument(h.tracer, "POST "+h.path, h.handleCreate))
	mux.Handle("GET "+item, instrument(h.tracer, "GET "+item, h.handleGet))
	mux.Handle("PATCH "+item, instrument(h.tracer, "PATCH "+item, h.handleUpdate))
	mux.Handle("DELETE "+item, instrument(h.tracer, "DELETE "+item, h.handleDelete))
}

func (h *resourceHandler[E, P, Q]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), h.parseQuery(r.URL.Query()))
	if err != nil {
		requestLogger(h.logger, r).Error("error listing "+h.noun.plural, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch "+h.noun.plural)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resourceHandler[E, P, Q]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var patch P
	if err := decodePatch(r, h.validate, &patch); err != nil {
		requestLogger(h.logger, r).Debug("rejected "+h.noun.singular+" body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), &patch)
	if err != nil {
		requestLogger(h.logger, r).Error("error creating "+h.noun.singular, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create "+h.noun.singular)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *resourceHandler[E, P, Q]) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("resource.id", id))

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch "+h.noun.singular)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[E, P, Q]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("resource.id", id))

	var patch P
	if err := decodePatch(r, h.validate, &patch); err != nil {
		requestLogger(h.logger, r).Debug("rejected "+h.noun.singular+" body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		h.fail(w, r, err, "Failed to update "+h.noun.singular)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *resourceHandler[E, P, Q]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("resource.id", id))

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete "+h.noun.singular)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": h.noun.title + " deleted successfully"})
}

// fail maps a service error on a single record to a response.
func (h *resourceHandler[E, P, Q]) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := requestLogger(h.logger, r)
	if isNotFound(err) {
		log.Warn(h.noun.singular+" not found", "id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusNotFound, h.noun.title+" not found")
		return
	}
	log.Error(msg, "id", r.PathValue("id"), "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// parseFlag reads an optional boolean filter; any value other than "true"
// means false.
func parseFlag(q url.Values, key string) *bool {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key) == "true"
	return &v
}

func parseJobQuery(q url.Values) usecase.JobQuery {
	return usecase.JobQuery{Status: q.Get("status"), Search: q.Get("search")}
}

func parseInterviewQuery(q url.Values) usecase.InterviewQuery {
	return usecase.InterviewQuery{Upcoming: q.Get("upcoming") == "true", Completed: parseFlag(q, "completed")}
}

func parseTaskQuery(q url.Values) usecase.TaskQuery {
	return usecase.TaskQuery{Completed: parseFlag(q, "completed")}
}

func parseFollowUpQuery(q url.Values) usecase.FollowUpQuery {
	return usecase.FollowUpQuery{Completed: parseFlag(q, "completed")}
}
