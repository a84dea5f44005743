package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Enhancer = (*Enhancer)(nil)

// Enhancer is a mock implementation of pagesift.Enhancer.
type Enhancer struct {
	EnhanceFn func(ctx context.Context, result *pagesift.ContentResult, url string) (*pagesift.ContentResult, error)
}

func (e *Enhancer) Enhance(ctx context.Context, result *pagesift.ContentResult, url string) (*pagesift.ContentResult, error) {
	return e.EnhanceFn(ctx, result, url)
}

var _ pagesift.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagesift.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ pagesift.MarkupParser = (*MarkupParser)(nil)

// MarkupParser is a mock implementation of pagesift.MarkupParser.
type MarkupParser struct {
	ParseFn func(html, url string) (*pagesift.ContentResult, error)
}

func (p *MarkupParser) Parse(html, url string) (*pagesift.ContentResult, error) {
	return p.ParseFn(html, url)
}
