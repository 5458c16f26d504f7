package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int64
}

// MemoryStore keeps window counters in process memory. Counters are lost on
// restart, which is the accepted baseline for a single-process deployment;
// multi-instance deployments use the Redis-backed store instead.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window), now: time.Now}
}

// Incr counts the request under the key's current window, starting a new
// window when the previous one has elapsed. The critical section is a map
// lookup and an increment; nothing blocking runs under the lock.
func (s *MemoryStore) Incr(_ context.Context, key string, windowDur time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.start.Add(windowDur)) {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.start.Add(windowDur).Sub(now), nil
}

// Sweep drops windows that elapsed before cutoff. Called periodically from a
// background goroutine so long-idle client keys do not accumulate forever.
func (s *MemoryStore) Sweep(windowDur time.Duration) {
	cutoff := s.now().Add(-windowDur)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.windows {
		if w.start.Before(cutoff) {
			delete(s.windows, key)
		}
	}
}

// SweepLoop runs Sweep every interval until ctx is cancelled.
func (s *MemoryStore) SweepLoop(ctx context.Context, interval, windowDur time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(windowDur)
		}
	}
}
