package domain

import "context"

// LeaderElection picks the one replica that runs the in-process reminder
// schedule.
type LeaderElection interface {
	// Campaign blocks until this node leads or ctx ends. The returned channel
	// is closed when leadership is lost.
	Campaign(ctx context.Context) (<-chan struct{}, error)
	Resign(ctx context.Context) error
	IsLeader() bool
}

// Scheduler runs recurring work until ctx is done.
type Scheduler interface {
	Start(ctx context.Context) error
}
