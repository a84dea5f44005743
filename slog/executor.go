package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure LoggingExecutor implements pagesift.Executor.
var _ pagesift.Executor = (*LoggingExecutor)(nil)

// LoggingExecutor wraps an Executor with per-task logging.
type LoggingExecutor struct {
	next   pagesift.Executor
	logger *slog.Logger
}

// NewLoggingExecutor creates a new LoggingExecutor.
func NewLoggingExecutor(next pagesift.Executor, logger *slog.Logger) *LoggingExecutor {
	return &LoggingExecutor{next: next, logger: logger}
}

// Initialize delegates to the wrapped executor.
func (e *LoggingExecutor) Initialize(ctx context.Context) error {
	begin := time.Now()
	err := e.next.Initialize(ctx)
	if err != nil {
		e.logger.Error("executor initialization failed",
			"duration", time.Since(begin),
			"err", err,
		)
		return err
	}
	e.logger.Info("executor initialized", "duration", time.Since(begin))
	return nil
}

// Execute delegates to the wrapped executor and logs the task outcome.
func (e *LoggingExecutor) Execute(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error) {
	begin := time.Now()
	value, err := e.next.Execute(ctx, kind, payload, opts)
	duration := time.Since(begin)

	if err != nil {
		e.logger.Warn("task failed",
			"kind", kind,
			"priority", opts.Priority.String(),
			"duration", duration,
			"err", err,
		)
		return value, err
	}

	e.logger.Info("task completed",
		"kind", kind,
		"priority", opts.Priority.String(),
		"duration", duration,
	)
	return value, nil
}

// Cleanup delegates to the wrapped executor.
func (e *LoggingExecutor) Cleanup() {
	e.next.Cleanup()
	e.logger.Info("executor cleaned up")
}
