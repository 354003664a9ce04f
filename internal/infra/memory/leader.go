package memory

import (
	"context"
	"sync/atomic"
)

// SoleLeader is the election of a single-process deployment: every campaign
// wins at once and leadership is only given up by Resign.
type SoleLeader struct {
	leader atomic.Bool
}

func NewSoleLeader() *SoleLeader {
	return &SoleLeader{}
}

func (l *SoleLeader) Campaign(ctx context.Context) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.leader.Store(true)
	return make(chan struct{}), nil
}

func (l *SoleLeader) Resign(context.Context) error {
	l.leader.Store(false)
	return nil
}

func (l *SoleLeader) IsLeader() bool { return l.leader.Load() }
