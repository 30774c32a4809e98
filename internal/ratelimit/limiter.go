// Package ratelimit provides the per-caller sliding-window counter that
// guards the API. State is process-local; callers on other replicas are
// counted separately.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 30
)

// Limiter tracks the accepted request times of each caller over a trailing
// window. One limiter instance serves the whole API, so a caller's reads
// and writes share a single budget.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu      sync.Mutex
	callers map[string][]time.Time
}

func New(window time.Duration, max int) *Limiter {
	return NewWithClock(window, max, time.Now)
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(window time.Duration, max int, now func() time.Time) *Limiter {
	return &Limiter{
		window:  window,
		max:     max,
		now:     now,
		callers: make(map[string][]time.Time),
	}
}

// Allow prunes the caller's expired entries, then either records this call
// and accepts, or rejects when the window is already full. A rejected call
// is never recorded, so hammering a full window does not extend it.
func (l *Limiter) Allow(callerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.callers[callerID][:0]
	for _, at := range l.callers[callerID] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= l.max {
		l.callers[callerID] = kept
		return false
	}

	l.callers[callerID] = append(kept, now)
	return true
}

// Sweep removes callers with no activity inside the window and reports how
// many were dropped. Allow never deletes idle keys, so the map grows
// without bound unless this runs periodically.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for id, times := range l.callers {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.callers, id)
			removed++
		}
	}
	return removed
}

// Callers reports how many distinct callers are currently tracked.
func (l *Limiter) Callers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.callers)
}
