package domain

import "errors"

var (
	// ErrUnauthorized is returned when a sweep trigger presents the wrong secret.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSweepInProgress is returned when another reminder sweep holds the lock.
	ErrSweepInProgress = errors.New("reminder sweep already running")
)

// SweepResult reports what a reminder sweep sent. Errors holds one entry per
// failed send; storage failures abort the sweep instead.
type SweepResult struct {
	InterviewReminders int      `json:"interviewReminders"`
	FollowUpReminders  int      `json:"followUpReminders"`
	TaskReminders      int      `json:"taskReminders"`
	Errors             []string `json:"errors"`
}
