package mock

import "github.com/pagesift/pagesift"

var _ pagesift.Tracker = (*Tracker)(nil)

// Tracker is a mock implementation of pagesift.Tracker.
type Tracker struct {
	RecordAttemptFn func(method pagesift.Method, succeeded bool)
	StatsFn         func(method pagesift.Method) pagesift.MethodStats
	RatesFn         func() map[pagesift.Method]float64
	ResetFn         func()
}

func (t *Tracker) RecordAttempt(method pagesift.Method, succeeded bool) {
	t.RecordAttemptFn(method, succeeded)
}

func (t *Tracker) Stats(method pagesift.Method) pagesift.MethodStats {
	return t.StatsFn(method)
}

func (t *Tracker) Rates() map[pagesift.Method]float64 {
	return t.RatesFn()
}

func (t *Tracker) Reset() {
	if t.ResetFn != nil {
		t.ResetFn()
	}
}
