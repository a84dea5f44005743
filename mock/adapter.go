// Package mock provides hand-written mock implementations of pagesift
// interfaces for use in tests.
package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Adapter = (*Adapter)(nil)

// Adapter is a mock implementation of pagesift.Adapter.
type Adapter struct {
	MethodFn    func() pagesift.Method
	AvailableFn func() bool
	ExtractFn   func(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error)
}

func (a *Adapter) Method() pagesift.Method {
	return a.MethodFn()
}

func (a *Adapter) Available() bool {
	return a.AvailableFn()
}

func (a *Adapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	return a.ExtractFn(ctx, target, opts)
}
