// Package memory provides process-local storage and locking for tests and
// single-node runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
)

// KV is a map-backed key-value store. Every write takes the next value of a
// store-wide revision counter, like etcd's mod revision.
type KV struct {
	mu   sync.RWMutex
	data map[string]entry
	rev  int64
}

type entry struct {
	value []byte
	rev   int64
}

func NewKV() *KV {
	return &KV{data: make(map[string]entry)}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	v, _, err := s.GetRevision(ctx, key)
	return v, err
}

// GetRevision returns the value of key and the revision of its last write.
func (s *KV) GetRevision(_ context.Context, key string) ([]byte, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	if !ok {
		return nil, 0, domain.ErrNotFound
	}
	return clone(e.value), e.rev, nil
}

func (s *KV) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value)
	return nil
}

// CompareAndPut writes value only if key still carries rev.
func (s *KV) CompareAndPut(_ context.Context, key string, value []byte, rev int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[key]; !ok || e.rev != rev {
		return false, nil
	}
	s.put(key, value)
	return true, nil
}

func (s *KV) put(key string, value []byte) {
	s.rev++
	s.data[key] = entry{value: clone(value), rev: s.rev}
}

func (s *KV) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok, nil
}

// Scan returns values ordered by key.
func (s *KV) Scan(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, 0, len(keys))
	for _, k := range keys {
		values = append(values, clone(s.data[k].value))
	}
	return values, nil
}

// Ping always succeeds.
func (s *KV) Ping(context.Context) error { return nil }

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
