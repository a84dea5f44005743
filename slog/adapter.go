// Package slog provides logging decorators for extraction adapters and the
// task executor.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure LoggingAdapter implements pagesift.Adapter.
var _ pagesift.Adapter = (*LoggingAdapter)(nil)

// LoggingAdapter wraps an Adapter with per-attempt logging.
type LoggingAdapter struct {
	next   pagesift.Adapter
	logger *slog.Logger
}

// NewLoggingAdapter creates a new LoggingAdapter.
func NewLoggingAdapter(next pagesift.Adapter, logger *slog.Logger) *LoggingAdapter {
	return &LoggingAdapter{next: next, logger: logger}
}

// Method delegates to the wrapped adapter.
func (a *LoggingAdapter) Method() pagesift.Method {
	return a.next.Method()
}

// Available delegates to the wrapped adapter.
func (a *LoggingAdapter) Available() bool {
	return a.next.Available()
}

// Extract delegates to the wrapped adapter and logs the attempt outcome.
func (a *LoggingAdapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	begin := time.Now()
	res, err := a.next.Extract(ctx, target, opts)
	duration := time.Since(begin)

	if err != nil {
		a.logger.Warn("extraction attempt failed",
			"method", string(a.next.Method()),
			"url", target,
			"duration", duration,
			"err", err,
		)
		return res, err
	}

	a.logger.Info("extraction attempt",
		"method", string(a.next.Method()),
		"url", target,
		"duration", duration,
		"valid", pagesift.IsValidResult(res),
	)
	return res, nil
}
