package memory

import (
	"context"
	"sync"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
)

// Locker hands out named locks within one process.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

func (l *Locker) Lock(_ context.Context, name string) (domain.Lock, error) {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, domain.ErrLockNotAcquired
	}
	return &lock{m: m}, nil
}

type lock struct {
	once sync.Once
	m    *sync.Mutex
}

func (l *lock) Unlock(context.Context) error {
	l.once.Do(l.m.Unlock)
	return nil
}
