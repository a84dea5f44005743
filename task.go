package pagesift

import (
	"context"
	"time"
)

// Priority orders tasks within the executor. Higher priorities are always
// drained first; within one priority tasks run in submission order.
type Priority int

// The zero value is PriorityNormal so that TaskOptions{} submits a
// normal-priority task.
const (
	PriorityNormal Priority = iota
	PriorityHigh
	PriorityLow
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

// Task is a unit of background-offloaded processing work. Once submitted the
// executor owns it exclusively; the caller holds only the blocked Execute
// call as its handle.
type Task struct {
	ID        string
	Kind      string
	Payload   any
	Priority  Priority
	CreatedAt time.Time
}

// TaskHandler processes one task payload. Handlers run on a background
// execution slot and must honor context cancellation, which fires on task
// timeout and executor cleanup.
type TaskHandler func(ctx context.Context, payload any) (any, error)

// TaskOptions configures a single Execute call.
type TaskOptions struct {
	// Priority of the task. The zero value is PriorityNormal.
	Priority Priority

	// Timeout overrides the executor's default per-task timeout when > 0.
	Timeout time.Duration
}

// Executor runs named processing jobs on a bounded pool of background
// execution slots with priority, timeout, and failure-recovery guarantees.
type Executor interface {
	// Initialize prepares the executor. It is idempotent; concurrent calls
	// collapse into one in-flight initialization and all return together.
	Initialize(ctx context.Context) error

	// Execute submits a task and blocks until it completes, fails, or times
	// out. Abandoning the call through ctx leaves the task running to
	// completion with its result discarded.
	Execute(ctx context.Context, kind string, payload any, opts TaskOptions) (any, error)

	// Cleanup terminates all slots and rejects all queued and in-flight
	// tasks with ESHUTDOWN.
	Cleanup()
}
