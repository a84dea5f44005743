package pagesift

// MethodStats holds the per-method attempt counters.
type MethodStats struct {
	Attempts  int64 `json:"attempts"`
	Successes int64 `json:"successes"`
}

// Rate returns the success rate in [0,1], or 0 for methods never attempted.
func (s MethodStats) Rate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// Tracker maintains per-method success metrics used to bias strategy order.
// Implementations must not lose updates under concurrent RecordAttempt calls.
type Tracker interface {
	// RecordAttempt records one attempt for the method, successful or not.
	RecordAttempt(method Method, succeeded bool)

	// Stats returns a snapshot of the counters for the method.
	Stats(method Method) MethodStats

	// Rates returns a snapshot of success rates for all recorded methods.
	Rates() map[Method]float64

	// Reset clears all counters. Used by explicit cache-clear only.
	Reset()
}
