package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.ResultCache = (*ResultCache)(nil)

// ResultCache is a mock implementation of pagesift.ResultCache.
type ResultCache struct {
	GetFn   func(ctx context.Context, url string) (*pagesift.ContentResult, error)
	PutFn   func(ctx context.Context, result *pagesift.ContentResult) error
	ClearFn func(ctx context.Context) error
}

func (c *ResultCache) Get(ctx context.Context, url string) (*pagesift.ContentResult, error) {
	return c.GetFn(ctx, url)
}

func (c *ResultCache) Put(ctx context.Context, result *pagesift.ContentResult) error {
	return c.PutFn(ctx, result)
}

func (c *ResultCache) Clear(ctx context.Context) error {
	return c.ClearFn(ctx)
}
