package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/mock"
	pslog "github.com/pagesift/pagesift/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textLogger() (*stdslog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return stdslog.New(stdslog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingAdapter_logs_successful_attempts(t *testing.T) {
	t.Parallel()

	logger, buf := textLogger()
	inner := &mock.Adapter{
		MethodFn:    func() pagesift.Method { return pagesift.MethodReadability },
		AvailableFn: func() bool { return true },
		ExtractFn: func(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
			return &pagesift.ContentResult{Text: "content", Success: true}, nil
		},
	}
	a := pslog.NewLoggingAdapter(inner, logger)

	res, err := a.Extract(context.Background(), "https://example.com", pagesift.Options{})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, buf.String(), "extraction attempt")
	assert.Contains(t, buf.String(), "method=readability")
	assert.Contains(t, buf.String(), "valid=true")
}

func TestLoggingAdapter_logs_failed_attempts(t *testing.T) {
	t.Parallel()

	logger, buf := textLogger()
	inner := &mock.Adapter{
		MethodFn: func() pagesift.Method { return pagesift.MethodWebview },
		ExtractFn: func(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
			return nil, pagesift.Errorf(pagesift.EINTERNAL, "script crashed")
		},
	}
	a := pslog.NewLoggingAdapter(inner, logger)

	_, err := a.Extract(context.Background(), "https://example.com", pagesift.Options{})

	require.Error(t, err)
	assert.Contains(t, buf.String(), "extraction attempt failed")
	assert.Contains(t, buf.String(), "script crashed")
}

func TestLoggingAdapter_delegates_method_and_availability(t *testing.T) {
	t.Parallel()

	logger, _ := textLogger()
	inner := &mock.Adapter{
		MethodFn:    func() pagesift.Method { return pagesift.MethodDOMProxy },
		AvailableFn: func() bool { return false },
	}
	a := pslog.NewLoggingAdapter(inner, logger)

	assert.Equal(t, pagesift.MethodDOMProxy, a.Method())
	assert.False(t, a.Available())
}

func TestLoggingExecutor_logs_task_outcomes(t *testing.T) {
	t.Parallel()

	logger, buf := textLogger()
	inner := &mock.Executor{
		ExecuteFn: func(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error) {
			return "done", nil
		},
	}
	e := pslog.NewLoggingExecutor(inner, logger)

	v, err := e.Execute(context.Background(), "parse-markup", nil, pagesift.TaskOptions{Priority: pagesift.PriorityHigh})

	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Contains(t, buf.String(), "task completed")
	assert.Contains(t, buf.String(), "kind=parse-markup")
	assert.Contains(t, buf.String(), "priority=high")
}

func TestLoggingExecutor_logs_failures(t *testing.T) {
	t.Parallel()

	logger, buf := textLogger()
	inner := &mock.Executor{
		ExecuteFn: func(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error) {
			return nil, pagesift.Errorf(pagesift.ETIMEOUT, "task timed out")
		},
	}
	e := pslog.NewLoggingExecutor(inner, logger)

	_, err := e.Execute(context.Background(), "parse-markup", nil, pagesift.TaskOptions{})

	require.Error(t, err)
	assert.Contains(t, buf.String(), "task failed")
	assert.Contains(t, buf.String(), "task timed out")
}

func TestLoggingExecutor_lifecycle_logging(t *testing.T) {
	t.Parallel()

	logger, buf := textLogger()
	cleaned := false
	inner := &mock.Executor{
		CleanupFn: func() { cleaned = true },
	}
	e := pslog.NewLoggingExecutor(inner, logger)

	require.NoError(t, e.Initialize(context.Background()))
	e.Cleanup()

	assert.True(t, cleaned)
	assert.Contains(t, buf.String(), "executor initialized")
	assert.Contains(t, buf.String(), "executor cleaned up")
}
