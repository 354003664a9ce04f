package usecase

import (
	"errors"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Clock returns the current time. Services take one so tests can pin "now".
// The zone of the returned time decides calendar days, floating dates in
// patches and dates in reminder emails.
type Clock func() time.Time

// ClockIn reads the wall clock in loc.
func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Location is the zone the clock reports in.
func (c Clock) Location() *time.Location { return c().Location() }

// stamp drops the monotonic reading and sub-millisecond precision so the
// value survives a round trip through any store unchanged.
func stamp(c Clock) time.Time {
	return c().Round(0).Truncate(time.Millisecond)
}

// recordError marks the span failed unless err is an expected lookup miss.
func recordError(span trace.Span, err error, msg string) {
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

func boolPtr(b bool) *bool { return &b }

// completion fills in completedDate when a patch flips completed away from
// was without naming the date itself. Repeating the current state keeps the
// stored date.
func completion(changes domain.Changes, completed domain.Optional[bool], completedDate domain.Optional[*time.Time], was bool, now time.Time) {
	if !completed.Set || completedDate.Set || completed.Value == was {
		return
	}
	if completed.Value {
		changes["completedDate"] = &now
	} else {
		changes["completedDate"] = (*time.Time)(nil)
	}
}
