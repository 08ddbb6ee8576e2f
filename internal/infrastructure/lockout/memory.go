// Package lockout provides a process-local LoginLockoutStore used when no
// Redis instance is configured.
package lockout

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/project-registry/internal/core/ports"
)

type entry struct {
	failures  int
	expiresAt time.Time
}

// MemoryStore counts failed logins per username in memory. It is only
// correct for a single instance; multi-instance deployments use the Redis
// store.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]*entry
	max    int
	window time.Duration
	now    func() time.Time

	nextSweep time.Time
}

// NewMemoryStore returns a store that locks a username for window after
// maxAttempts consecutive failures. maxAttempts <= 0 disables locking.
func NewMemoryStore(maxAttempts int, window time.Duration) *MemoryStore {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &MemoryStore{
		data:   make(map[string]*entry),
		max:    maxAttempts,
		window: window,
		now:    time.Now,
	}
}

func (s *MemoryStore) IsLocked(_ context.Context, username string) (bool, int, error) {
	if s.max <= 0 {
		return false, 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[username]
	if !ok {
		return false, 0, nil
	}
	now := s.now()
	if !now.Before(e.expiresAt) {
		delete(s.data, username)
		return false, 0, nil
	}
	if e.failures < s.max {
		return false, 0, nil
	}
	return true, retryAfter(e.expiresAt.Sub(now)), nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, username string) error {
	if s.max <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	e, ok := s.data[username]
	if !ok || !now.Before(e.expiresAt) {
		e = &entry{expiresAt: now.Add(s.window)}
		s.data[username] = e
	}
	e.failures++
	if e.failures >= s.max {
		e.expiresAt = now.Add(s.window)
	}
	return nil
}

func (s *MemoryStore) RecordSuccess(_ context.Context, username string) error {
	s.mu.Lock()
	delete(s.data, username)
	s.mu.Unlock()
	return nil
}

// sweep drops expired entries at most once per window, so usernames that
// are never tried again do not accumulate. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for name, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, name)
		}
	}
	s.nextSweep = now.Add(s.window)
}

func retryAfter(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)
