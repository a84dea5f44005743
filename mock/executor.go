package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Executor = (*Executor)(nil)

// Executor is a mock implementation of pagesift.Executor.
type Executor struct {
	InitializeFn func(ctx context.Context) error
	ExecuteFn    func(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error)
	CleanupFn    func()
}

func (e *Executor) Initialize(ctx context.Context) error {
	if e.InitializeFn == nil {
		return nil
	}
	return e.InitializeFn(ctx)
}

func (e *Executor) Execute(ctx context.Context, kind string, payload any, opts pagesift.TaskOptions) (any, error) {
	return e.ExecuteFn(ctx, kind, payload, opts)
}

func (e *Executor) Cleanup() {
	if e.CleanupFn != nil {
		e.CleanupFn()
	}
}
