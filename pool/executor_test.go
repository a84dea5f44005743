package pool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newExecutor returns an initialized executor with the given handlers.
func newExecutor(t *testing.T, handlers pool.Registry, opts ...pool.Option) *pool.Executor {
	t.Helper()

	e := pool.NewExecutor(handlers, opts...)
	require.NoError(t, e.Initialize(context.Background()))
	t.Cleanup(e.Cleanup)
	return e
}

func TestExecutor_Execute_runs_a_task(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) {
			return payload, nil
		},
	})

	v, err := e.Execute(context.Background(), "echo", "hello", pagesift.TaskOptions{})

	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestExecutor_Execute_rejects_unknown_kind(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	})

	_, err := e.Execute(context.Background(), "nope", nil, pagesift.TaskOptions{})

	assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
}

func TestExecutor_Execute_before_Initialize_rejects(t *testing.T) {
	t.Parallel()

	e := pool.NewExecutor(pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	})

	_, err := e.Execute(context.Background(), "echo", nil, pagesift.TaskOptions{})

	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestExecutor_Initialize_requires_handlers(t *testing.T) {
	t.Parallel()

	e := pool.NewExecutor(pool.Registry{})

	err := e.Initialize(context.Background())

	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestExecutor_Initialize_collapses_concurrent_calls(t *testing.T) {
	t.Parallel()

	var probes atomic.Int64
	release := make(chan struct{})

	e := pool.NewExecutor(pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	}, pool.WithInitFunc(func(ctx context.Context) error {
		probes.Add(1)
		<-release
		return nil
	}))
	t.Cleanup(e.Cleanup)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = e.Initialize(context.Background())
		}(i)
	}

	// Let all callers pile up on the single in-flight initialization.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), probes.Load(), "concurrent Initialize calls must collapse into one")
}

func TestExecutor_init_failure_marks_executor_unavailable(t *testing.T) {
	t.Parallel()

	e := pool.NewExecutor(pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	}, pool.WithInitFunc(func(ctx context.Context) error {
		return pagesift.Errorf(pagesift.EUNAVAILABLE, "no execution environment")
	}))

	err := e.Initialize(context.Background())
	require.Error(t, err)

	_, err = e.Execute(context.Background(), "echo", nil, pagesift.TaskOptions{})
	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestExecutor_bounded_pool_queues_excess_tasks(t *testing.T) {
	t.Parallel()

	const maxSlots = 3

	var running atomic.Int64
	var peak atomic.Int64
	release := make(chan struct{})

	e := newExecutor(t, pool.Registry{
		"block": func(ctx context.Context, payload any) (any, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer running.Add(-1)
			select {
			case <-release:
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}, pool.WithMaxSlots(maxSlots))

	var wg sync.WaitGroup
	wg.Add(maxSlots + 1)
	for i := 0; i < maxSlots+1; i++ {
		go func() {
			defer wg.Done()
			_, _ = e.Execute(context.Background(), "block", nil, pagesift.TaskOptions{})
		}()
	}

	// Wait until the pool is saturated.
	require.Eventually(t, func() bool {
		st := e.Stats()
		return st.Busy == maxSlots && st.Queued == 1
	}, 2*time.Second, 5*time.Millisecond, "expected maxSlots running and one task queued")

	close(release)
	wg.Wait()

	assert.Equal(t, int64(maxSlots), peak.Load(), "no more than maxSlots tasks may run concurrently")
}

func TestExecutor_high_priority_dispatched_before_queued_normal(t *testing.T) {
	t.Parallel()

	var order []string
	var orderMu sync.Mutex
	record := func(name string) {
		orderMu.Lock()
		defer orderMu.Unlock()
		order = append(order, name)
	}

	release := make(chan struct{})

	e := newExecutor(t, pool.Registry{
		"block": func(ctx context.Context, payload any) (any, error) {
			<-release
			return nil, nil
		},
		"mark": func(ctx context.Context, payload any) (any, error) {
			record(payload.(string))
			return nil, nil
		},
	}, pool.WithMaxSlots(1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.Execute(context.Background(), "block", nil, pagesift.TaskOptions{})
	}()

	require.Eventually(t, func() bool { return e.Stats().Busy == 1 }, 2*time.Second, 5*time.Millisecond)

	// Queue a normal task first, then a high priority task.
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = e.Execute(context.Background(), "mark", "normal", pagesift.TaskOptions{Priority: pagesift.PriorityNormal})
	}()
	require.Eventually(t, func() bool { return e.Stats().Queued == 1 }, 2*time.Second, 5*time.Millisecond)
	go func() {
		defer wg.Done()
		_, _ = e.Execute(context.Background(), "mark", "high", pagesift.TaskOptions{Priority: pagesift.PriorityHigh})
	}()
	require.Eventually(t, func() bool { return e.Stats().Queued == 2 }, 2*time.Second, 5*time.Millisecond)

	close(release)
	wg.Wait()

	require.Equal(t, []string{"high", "normal"}, order, "high priority must be dispatched first once a slot frees")
}

func TestExecutor_task_timeout_rejects_and_pool_self_heals(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, pool.Registry{
		"slow": func(ctx context.Context, payload any) (any, error) {
			select {
			case <-time.After(10 * time.Second):
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
		"fast": func(ctx context.Context, payload any) (any, error) {
			return "ok", nil
		},
	}, pool.WithMaxSlots(1), pool.WithTaskTimeout(50*time.Millisecond))

	_, err := e.Execute(context.Background(), "slow", nil, pagesift.TaskOptions{})
	assert.Equal(t, pagesift.ETIMEOUT, pagesift.ErrorCode(err))

	// The occupying slot was replaced; a subsequent task still succeeds.
	v, err := e.Execute(context.Background(), "fast", nil, pagesift.TaskOptions{Timeout: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestExecutor_panicking_handler_faults_only_its_own_task(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, pool.Registry{
		"boom": func(ctx context.Context, payload any) (any, error) {
			panic("handler exploded")
		},
		"fast": func(ctx context.Context, payload any) (any, error) {
			return "ok", nil
		},
	}, pool.WithMaxSlots(1))

	_, err := e.Execute(context.Background(), "boom", nil, pagesift.TaskOptions{})
	assert.Equal(t, pagesift.EINTERNAL, pagesift.ErrorCode(err))

	v, err := e.Execute(context.Background(), "fast", nil, pagesift.TaskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestExecutor_idle_slots_are_reclaimed(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	}, pool.WithIdleTimeout(50*time.Millisecond))

	_, err := e.Execute(context.Background(), "echo", nil, pagesift.TaskOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, e.Stats().Slots, 1)

	assert.Eventually(t, func() bool {
		return e.Stats().Slots == 0
	}, 2*time.Second, 10*time.Millisecond, "pool should shrink toward zero when idle")
}

func TestExecutor_Cleanup_rejects_outstanding_work(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 8)

	e := pool.NewExecutor(pool.Registry{
		"block": func(ctx context.Context, payload any) (any, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}, pool.WithMaxSlots(2))
	require.NoError(t, e.Initialize(context.Background()))

	const tasks = 4 // two in-flight, two queued
	errs := make(chan error, tasks)
	for i := 0; i < tasks; i++ {
		go func() {
			_, err := e.Execute(context.Background(), "block", nil, pagesift.TaskOptions{})
			errs <- err
		}()
	}

	// Wait for both slots to be occupied.
	<-started
	<-started
	require.Eventually(t, func() bool { return e.Stats().Queued == 2 }, 2*time.Second, 5*time.Millisecond)

	e.Cleanup()

	for i := 0; i < tasks; i++ {
		err := <-errs
		assert.Equal(t, pagesift.ESHUTDOWN, pagesift.ErrorCode(err), "all outstanding tasks must reject with shutdown")
	}
	assert.Zero(t, e.Stats().Slots, "cleanup must leave zero slots")

	// Execute after Cleanup (without re-Initialize) rejects immediately.
	_, err := e.Execute(context.Background(), "block", nil, pagesift.TaskOptions{})
	assert.Equal(t, pagesift.ESHUTDOWN, pagesift.ErrorCode(err))
}

func TestExecutor_can_reinitialize_after_Cleanup(t *testing.T) {
	t.Parallel()

	e := pool.NewExecutor(pool.Registry{
		"echo": func(ctx context.Context, payload any) (any, error) { return payload, nil },
	})
	require.NoError(t, e.Initialize(context.Background()))
	e.Cleanup()

	require.NoError(t, e.Initialize(context.Background()))
	t.Cleanup(e.Cleanup)

	v, err := e.Execute(context.Background(), "echo", 42, pagesift.TaskOptions{})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestExecutor_abandoned_call_leaves_task_running(t *testing.T) {
	t.Parallel()

	completed := make(chan struct{})

	e := newExecutor(t, pool.Registry{
		"slow": func(ctx context.Context, payload any) (any, error) {
			time.Sleep(100 * time.Millisecond)
			close(completed)
			return nil, nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := e.Execute(ctx, "slow", nil, pagesift.TaskOptions{})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The losing attempt still runs to completion; only its result is
	// discarded by the caller.
	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned task should still run to completion")
	}
}

func TestExecutor_same_priority_tasks_run_in_submission_order(t *testing.T) {
	t.Parallel()

	var order []int
	var orderMu sync.Mutex

	release := make(chan struct{})

	e := newExecutor(t, pool.Registry{
		"block": func(ctx context.Context, payload any) (any, error) {
			<-release
			return nil, nil
		},
		"mark": func(ctx context.Context, payload any) (any, error) {
			orderMu.Lock()
			defer orderMu.Unlock()
			order = append(order, payload.(int))
			return nil, nil
		},
	}, pool.WithMaxSlots(1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.Execute(context.Background(), "block", nil, pagesift.TaskOptions{})
	}()
	require.Eventually(t, func() bool { return e.Stats().Busy == 1 }, 2*time.Second, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Execute(context.Background(), "mark", i, pagesift.TaskOptions{})
		}()
		require.Eventually(t, func() bool { return e.Stats().Queued == i+1 }, 2*time.Second, 5*time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order, "FIFO within one priority tier")
}
