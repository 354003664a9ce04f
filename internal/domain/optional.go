package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Optional is a field of a partial update body. Set reports whether the key
// was present; an explicit JSON null sets it to the zero value of T.
type Optional[T any] struct {
	Value T
	Set   bool

	// floating marks a decoded date that carried no offset. It holds the
	// wall clock in UTC until In anchors it to a zone.
	floating bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Any returns the held value as an interface, used by the validator.
func (o Optional[T]) Any() any {
	return o.Value
}

// UnmarshalJSON marks the field as present and decodes its value. Time values
// accept RFC 3339 timestamps as well as date-only and datetime-local forms.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.floating = false
	var zero T
	o.Value = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	switch v := any(&o.Value).(type) {
	case *time.Time:
		t, floating, err := parseTimeJSON(data)
		if err != nil {
			return err
		}
		*v, o.floating = t, floating
	case **time.Time:
		t, floating, err := parseTimeJSON(data)
		if err != nil {
			return err
		}
		*v, o.floating = &t, floating
	default:
		return json.Unmarshal(data, &o.Value)
	}
	return nil
}

// MarshalJSON encodes the held value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// In returns o with a date that carried no offset re-read as wall-clock
// time in loc. Other values are returned unchanged.
func (o Optional[T]) In(loc *time.Location) Optional[T] {
	if !o.floating || loc == nil {
		return o
	}
	switch v := any(&o.Value).(type) {
	case *time.Time:
		*v = wallClock(*v, loc)
	case **time.Time:
		if *v != nil {
			t := wallClock(**v, loc)
			*v = &t
		}
	}
	o.floating = false
	return o
}

func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// floatingLayouts are the datetime-local and date-only forms, which carry no
// offset.
var floatingLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTime parses the date representations the web forms submit. Values
// without an offset are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	t, _, err := parseTime(s, loc)
	return t, err
}

func parseTime(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, false, nil
	}
	for _, layout := range floatingLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}

func parseTimeJSON(data []byte) (time.Time, bool, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false, fmt.Errorf("date must be a string: %w", err)
	}
	return parseTime(s, time.UTC)
}

// Changes is a set of document fields to merge into a stored record, keyed
// by their stored field name.
type Changes map[string]any

func (c Changes) put(key string, set bool, value any) {
	if set {
		c[key] = value
	}
}

func setOpt[T any](c Changes, key string, o Optional[T]) {
	c.put(key, o.Set, o.Value)
}

// Merge applies changes to dst by round-tripping through its JSON form.
// JSON and storage field names are identical for every entity.
func Merge(dst any, changes Changes) error {
	if len(changes) == 0 {
		return nil
	}
	raw, err := json.Marshal(dst)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	for key, value := range changes {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", key, err)
		}
		doc[key] = encoded
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode merged document: %w", err)
	}
	return json.Unmarshal(merged, dst)
}
