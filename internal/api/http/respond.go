package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With("request_id", r.Header.Get(RequestIDHeader), "method", r.Method, "path", r.URL.Path)
}

// isNotFound covers both missing records and ids the store could never have
// issued.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID)
}

// newValidator returns a validator that sees through domain.Optional fields.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	unwrap := func(field reflect.Value) any {
		if o, ok := field.Interface().(interface{ Any() any }); ok {
			return o.Any()
		}
		return nil
	}
	v.RegisterCustomTypeFunc(unwrap,
		domain.Optional[domain.JobStatus]{},
		domain.Optional[domain.InterviewType]{},
		domain.Optional[domain.TaskPriority]{},
		domain.Optional[domain.TaskCategory]{},
		domain.Optional[domain.FollowUpMethod]{},
	)
	return v
}

// decodePatch reads a strict JSON body into dst and validates it.
func decodePatch(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field '%s' has invalid value %v", fe.Field(), fe.Value())
		}
		return err
	}
	return nil
}
