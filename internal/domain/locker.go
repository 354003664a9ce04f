package domain

import (
	"context"
	"errors"
)

// ErrLockNotAcquired is returned when a lock is already held elsewhere.
var ErrLockNotAcquired = errors.New("lock not acquired")

// Lock is an acquired lock.
type Lock interface {
	Unlock(ctx context.Context) error
}

// Locker hands out named locks. Lock must not block: when the name is already
// held it returns ErrLockNotAcquired.
type Locker interface {
	Lock(ctx context.Context, name string) (Lock, error)
}
