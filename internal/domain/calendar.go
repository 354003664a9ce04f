package domain

import "time"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day returns the calendar day that starts offset days after t's day.
func Day(t time.Time, offset int) TimeRange {
	start := StartOfDay(t).AddDate(0, 0, offset)
	return TimeRange{From: start, To: start.AddDate(0, 0, 1)}
}

// Week returns the Sunday-based week containing t.
func Week(t time.Time) TimeRange {
	start := StartOfDay(t)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	return TimeRange{From: start, To: start.AddDate(0, 0, 7)}
}

// Since returns the open-ended range starting at t.
func Since(t time.Time) TimeRange {
	return TimeRange{From: t}
}
