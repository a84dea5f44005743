// Package metrics provides the in-memory success-rate tracker used to bias
// strategy ordering.
package metrics

import (
	"sync"

	"github.com/pagesift/pagesift"
)

// Compile-time interface verification.
var _ pagesift.Tracker = (*Tracker)(nil)

// Tracker counts extraction attempts and successes per method.
// It is safe for concurrent use by multiple goroutines; increments are
// performed under a mutex so parallel extraction calls never lose updates.
type Tracker struct {
	mu     sync.Mutex
	counts map[pagesift.Method]*pagesift.MethodStats
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[pagesift.Method]*pagesift.MethodStats),
	}
}

// RecordAttempt records one attempt for the method.
func (t *Tracker) RecordAttempt(method pagesift.Method, succeeded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.counts[method]
	if !ok {
		s = &pagesift.MethodStats{}
		t.counts[method] = s
	}
	s.Attempts++
	if succeeded {
		s.Successes++
	}
}

// Stats returns a snapshot of the counters for the method.
// Methods never attempted return zero counters.
func (t *Tracker) Stats(method pagesift.Method) pagesift.MethodStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.counts[method]; ok {
		return *s
	}
	return pagesift.MethodStats{}
}

// Rates returns a snapshot of success rates for all recorded methods.
func (t *Tracker) Rates() map[pagesift.Method]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	rates := make(map[pagesift.Method]float64, len(t.counts))
	for m, s := range t.counts {
		rates[m] = s.Rate()
	}
	return rates
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts = make(map[pagesift.Method]*pagesift.MethodStats)
}
