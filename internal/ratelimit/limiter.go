package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects calls keyed by actor.
type Limiter interface {
	// Allow records one call for the key and reports whether it fits in the
	// window.
	Allow(key string) bool
}

// SlidingWindow is a per-key sliding-window counter. State lives on the
// instance so tests and multiple services can hold independent limiters.
type SlidingWindow struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	now       func() time.Time
	entries   map[string][]time.Time
	lastSweep time.Time
}

// NewSlidingWindow creates a limiter admitting at most limit calls per key
// within the trailing window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		window:  window,
		limit:   limit,
		now:     time.Now,
		entries: make(map[string][]time.Time),
	}
}

func (s *SlidingWindow) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)
	s.sweep(now, cutoff)

	kept := s.entries[key][:0]
	for _, t := range s.entries[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.limit {
		s.entries[key] = kept
		return false
	}

	s.entries[key] = append(kept, now)
	return true
}

// sweep drops keys whose every call has aged out of the window, at most once
// per window, so idle actors do not pin map entries for the process lifetime.
// Caller must hold the mutex.
func (s *SlidingWindow) sweep(now, cutoff time.Time) {
	if now.Sub(s.lastSweep) < s.window {
		return
	}
	s.lastSweep = now

	for key, calls := range s.entries {
		live := false
		for _, t := range calls {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(s.entries, key)
		}
	}
}

// Unlimited is a Limiter that admits everything, for wiring tests and tools.
type Unlimited struct{}

func (Unlimited) Allow(string) bool { return true }
