// Package pool provides the background task executor: a bounded pool of
// execution slots that runs named processing jobs with priority, timeout,
// and failure-recovery guarantees.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagesift/pagesift"
)

// Compile-time interface verification.
var _ pagesift.Executor = (*Executor)(nil)

// Pool sizing and lifecycle defaults.
const (
	// DefaultMaxSlots bounds the number of concurrent execution slots.
	DefaultMaxSlots = 3
	// DefaultTaskTimeout is the per-task deadline unless overridden.
	DefaultTaskTimeout = 30 * time.Second
	// DefaultIdleTimeout is how long an idle slot survives before it is
	// reclaimed.
	DefaultIdleTimeout = 60 * time.Second
)

// Registry maps task kinds to their handlers. The registry is fixed at
// construction time; unknown kinds are rejected at submission.
type Registry map[string]pagesift.TaskHandler

// outcome is the terminal state of one task.
type outcome struct {
	value   any
	err     error
	faulted bool // handler panicked; the slot is replaced
}

// pendingTask pairs a task with its handler and completion channel.
type pendingTask struct {
	task    pagesift.Task
	handler pagesift.TaskHandler
	timeout time.Duration
	done    chan outcome // buffered, exactly one send
}

// slot is one background execution unit. All mutable fields are guarded by
// the executor mutex; the work channel carries at most one assigned task.
type slot struct {
	id         string
	work       chan *pendingTask
	createdAt  time.Time
	lastUsedAt time.Time
	busy       bool
	currentID  string
	taskCount  int
}

// Executor runs tasks on a bounded set of background slots. Slots are
// created on demand up to the maximum, replaced when they fault or time out,
// and reclaimed after a quiet period. Three FIFO queues implement strict
// priority precedence: high drains before normal before low.
type Executor struct {
	handlers    Registry
	maxSlots    int
	taskTimeout time.Duration
	idleTimeout time.Duration
	initFn      func(ctx context.Context) error

	mu          sync.Mutex
	initialized bool
	closed      bool
	initCh      chan struct{}
	initErr     error
	rootCtx     context.Context
	rootCancel  context.CancelFunc
	slots       map[string]*slot
	queues      [3][]*pendingTask
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxSlots bounds the pool size. Defaults to DefaultMaxSlots.
func WithMaxSlots(n int) Option {
	return func(e *Executor) {
		e.maxSlots = n
	}
}

// WithTaskTimeout sets the default per-task deadline.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.taskTimeout = d
	}
}

// WithIdleTimeout sets how long an idle slot survives before reclamation.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.idleTimeout = d
	}
}

// WithInitFunc sets a probe run during Initialize. A probe error marks the
// executor unavailable: Execute rejects immediately without queueing.
func WithInitFunc(fn func(ctx context.Context) error) Option {
	return func(e *Executor) {
		e.initFn = fn
	}
}

// NewExecutor creates an Executor with the given task handlers.
// Initialize must be called before Execute.
func NewExecutor(handlers Registry, opts ...Option) *Executor {
	e := &Executor{
		handlers:    handlers,
		maxSlots:    DefaultMaxSlots,
		taskTimeout: DefaultTaskTimeout,
		idleTimeout: DefaultIdleTimeout,
		slots:       make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize prepares the executor. It is idempotent and concurrent calls
// collapse into one in-flight initialization: all callers observe the same
// outcome.
func (e *Executor) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	if e.initCh != nil {
		// Another initialization is in flight; wait for it.
		ch := e.initCh
		e.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
		err := e.initErr
		e.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	e.initCh = ch
	e.mu.Unlock()

	err := e.prepare(ctx)

	e.mu.Lock()
	e.initErr = err
	if err == nil {
		root, cancel := context.WithCancel(context.Background())
		e.rootCtx = root
		e.rootCancel = cancel
		e.slots = make(map[string]*slot)
		e.initialized = true
		e.closed = false
	}
	e.initCh = nil
	close(ch)
	e.mu.Unlock()

	return err
}

// prepare verifies the execution environment can be created.
func (e *Executor) prepare(ctx context.Context) error {
	if len(e.handlers) == 0 {
		return pagesift.Errorf(pagesift.EUNAVAILABLE, "no task handlers registered")
	}
	if e.initFn != nil {
		if err := e.initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Execute submits a task and blocks until it completes, fails, or times out.
// Abandoning the call through ctx leaves the task running; its eventual
// result is discarded.
func (e *Executor) Execute(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, pagesift.Errorf(pagesift.ESHUTDOWN, "executor has been cleaned up")
	}
	if !e.initialized {
		e.mu.Unlock()
		return nil, pagesift.Errorf(pagesift.EUNAVAILABLE, "executor not initialized")
	}
	handler, ok := e.handlers[kind]
	if !ok {
		e.mu.Unlock()
		return nil, pagesift.Errorf(pagesift.EINVALID, "unknown task kind %q", kind)
	}

	timeout := e.taskTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	pt := &pendingTask{
		task: pagesift.Task{
			ID:        uuid.New().String(),
			Kind:      kind,
			Payload:   payload,
			Priority:  opts.Priority,
			CreatedAt: time.Now(),
		},
		handler: handler,
		timeout: timeout,
		done:    make(chan outcome, 1),
	}

	e.queues[queueIndex(opts.Priority)] = append(e.queues[queueIndex(opts.Priority)], pt)
	e.dispatchLocked()
	e.mu.Unlock()

	select {
	case out := <-pt.done:
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cleanup terminates every slot regardless of busy state and rejects every
// queued and in-flight task with ESHUTDOWN. The pool is left with zero
// slots; a later Initialize brings the executor back.
func (e *Executor) Cleanup() {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = false
	e.closed = true
	cancel := e.rootCancel
	e.rootCancel = nil

	shutdown := outcome{err: pagesift.Errorf(pagesift.ESHUTDOWN, "executor shutting down")}

	// Reject everything still queued.
	for i := range e.queues {
		for _, pt := range e.queues[i] {
			pt.done <- shutdown
		}
		e.queues[i] = nil
	}

	// Reject tasks assigned to a slot but not yet picked up, then drop the
	// slots. In-flight tasks are rejected by their slot goroutines when the
	// root context is canceled below.
	for id, s := range e.slots {
		select {
		case pt := <-s.work:
			pt.done <- shutdown
		default:
		}
		delete(e.slots, id)
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Slots  int
	Busy   int
	Queued int
}

// Stats returns a snapshot of pool occupancy.
func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Stats{Slots: len(e.slots)}
	for _, s := range e.slots {
		if s.busy {
			st.Busy++
		}
	}
	for i := range e.queues {
		st.Queued += len(e.queues[i])
	}
	return st
}

// queueIndex maps a priority to its queue position in drain order.
func queueIndex(p pagesift.Priority) int {
	switch p {
	case pagesift.PriorityHigh:
		return 0
	case pagesift.PriorityLow:
		return 2
	default:
		return 1
	}
}

// queuedLocked reports whether any queue holds a task. Must be called with
// mu held.
func (e *Executor) queuedLocked() bool {
	for i := range e.queues {
		if len(e.queues[i]) > 0 {
			return true
		}
	}
	return false
}

// popLocked removes and returns the next task in strict priority order.
// Must be called with mu held.
func (e *Executor) popLocked() *pendingTask {
	for i := range e.queues {
		if len(e.queues[i]) > 0 {
			pt := e.queues[i][0]
			e.queues[i] = e.queues[i][1:]
			return pt
		}
	}
	return nil
}

// dispatchLocked assigns queued tasks to idle slots, creating slots up to
// the bound. Assignment happens under the mutex so two dispatch attempts can
// never claim the same slot. Must be called with mu held.
func (e *Executor) dispatchLocked() {
	for e.queuedLocked() {
		s := e.idleSlotLocked()
		if s == nil {
			if len(e.slots) >= e.maxSlots {
				return
			}
			s = e.spawnSlotLocked()
		}
		pt := e.popLocked()
		s.busy = true
		s.currentID = pt.task.ID
		s.taskCount++
		s.lastUsedAt = time.Now()
		s.work <- pt
	}
}

// idleSlotLocked returns any idle slot, or nil. Must be called with mu held.
func (e *Executor) idleSlotLocked() *slot {
	for _, s := range e.slots {
		if !s.busy {
			return s
		}
	}
	return nil
}

// spawnSlotLocked creates a slot and starts its goroutine.
// Must be called with mu held.
func (e *Executor) spawnSlotLocked() *slot {
	s := &slot{
		id:         uuid.New().String(),
		work:       make(chan *pendingTask, 1),
		createdAt:  time.Now(),
		lastUsedAt: time.Now(),
	}
	e.slots[s.id] = s
	go e.runSlot(s, e.rootCtx)
	return s
}

// runSlot is the slot goroutine: it alternates between waiting for work and
// an idle timer, and exits when the slot is retired, replaced, or the
// executor shuts down.
func (e *Executor) runSlot(s *slot, root context.Context) {
	idle := time.NewTimer(e.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case pt := <-s.work:
			if retired := e.runTask(s, root, pt); retired {
				return
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(e.idleTimeout)
		case <-idle.C:
			if e.retireIfIdle(s) {
				return
			}
			idle.Reset(e.idleTimeout)
		case <-root.Done():
			return
		}
	}
}

// runTask executes one task with its deadline. It reports whether the slot
// was retired (timeout, fault, or shutdown); a retired slot goroutine must
// return immediately.
func (e *Executor) runTask(s *slot, root context.Context, pt *pendingTask) bool {
	tctx, cancel := context.WithTimeout(root, pt.timeout)
	defer cancel()

	resCh := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				resCh <- outcome{
					err:     pagesift.Errorf(pagesift.EINTERNAL, "task %s (%s) panicked: %v", pt.task.ID, pt.task.Kind, p),
					faulted: true,
				}
			}
		}()
		v, err := pt.handler(tctx, pt.task.Payload)
		resCh <- outcome{value: v, err: err}
	}()

	select {
	case out := <-resCh:
		if root.Err() != nil && out.err != nil {
			// Cleanup canceled the task mid-flight; surface shutdown
			// rather than the handler's context error.
			pt.done <- outcome{err: pagesift.Errorf(pagesift.ESHUTDOWN, "executor shutting down")}
			return true
		}
		pt.done <- outcome{value: out.value, err: out.err}
		if out.faulted {
			// Execution-context fault: replace the slot so pool capacity
			// is preserved. Only this task is affected.
			e.replaceSlot(s)
			return true
		}
		e.finishTask(s)
		return false
	case <-tctx.Done():
		if root.Err() != nil {
			pt.done <- outcome{err: pagesift.Errorf(pagesift.ESHUTDOWN, "executor shutting down")}
			return true
		}
		// Task deadline exceeded. The handler goroutine may still be
		// running; it is abandoned and its result discarded. The slot is
		// terminated and replaced.
		pt.done <- outcome{err: pagesift.Errorf(pagesift.ETIMEOUT, "task %s (%s) timed out after %s", pt.task.ID, pt.task.Kind, pt.timeout)}
		e.replaceSlot(s)
		return true
	}
}

// finishTask marks the slot idle again and resumes dispatch.
func (e *Executor) finishTask(s *slot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	s.busy = false
	s.currentID = ""
	s.lastUsedAt = time.Now()
	e.dispatchLocked()
}

// replaceSlot drops a faulted slot and spawns a fresh one in its place.
func (e *Executor) replaceSlot(s *slot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.slots, s.id)
	if e.closed {
		return
	}
	e.spawnSlotLocked()
	e.dispatchLocked()
}

// retireIfIdle removes the slot if it has been quiet past the idle window.
// Returns false if a task was assigned while the timer was firing.
func (e *Executor) retireIfIdle(s *slot) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return true
	}
	if s.busy || len(s.work) > 0 {
		return false
	}
	delete(e.slots, s.id)
	return true
}
