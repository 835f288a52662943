package session

import (
	"sync"
	"time"
)

// scheduler runs cancelable deferred tasks keyed by purpose. Scheduling a
// new task under a key cancels any pending task with the same key, so at
// most one expiry is ever outstanding per key and a canceled timer can
// never apply a stale update even if it has already fired.
type scheduler struct {
	mu      sync.Mutex
	pending map[string]*scheduledTask
	gen     uint64
}

type scheduledTask struct {
	timer *time.Timer
	gen   uint64
}

func newScheduler() *scheduler {
	return &scheduler{pending: make(map[string]*scheduledTask)}
}

// Schedule arranges fn to run after d, replacing any pending task with the
// same key. fn only runs if the task is still current when the timer fires.
func (s *scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}

	s.gen++
	task := &scheduledTask{gen: s.gen}
	task.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		current, ok := s.pending[key]
		if !ok || current.gen != task.gen {
			// A newer task replaced us between firing and locking.
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()
		fn()
	})
	s.pending[key] = task
}

// Cancel stops any pending task under the key.
func (s *scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
		delete(s.pending, key)
	}
}

// CancelAll stops every pending task.
func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, task := range s.pending {
		task.timer.Stop()
		delete(s.pending, key)
	}
}

// PendingCount returns the number of outstanding tasks.
func (s *scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
