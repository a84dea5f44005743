package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/pagesift/pagesift"
)

// Ensure FallbackAdapter implements pagesift.Adapter at compile time.
var _ pagesift.Adapter = (*FallbackAdapter)(nil)

// FallbackAdapter is the method of last resort. It always produces a result:
// a plain fetch-and-strip when a fetcher is attached, otherwise a minimal
// stub derived from the target URL.
type FallbackAdapter struct {
	fetcher pagesift.Fetcher
}

// NewFallbackAdapter creates a new FallbackAdapter. The fetcher is optional.
func NewFallbackAdapter(fetcher pagesift.Fetcher) *FallbackAdapter {
	return &FallbackAdapter{fetcher: fetcher}
}

// Method returns the method identifier.
func (a *FallbackAdapter) Method() pagesift.Method {
	return pagesift.MethodFallback
}

// Available always reports true. The fallback has no preconditions.
func (a *FallbackAdapter) Available() bool {
	return true
}

// Extract never returns an error. When fetching or parsing fails it degrades
// to a stub result so callers always receive usable content.
func (a *FallbackAdapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	if a.fetcher != nil {
		if rawHTML, err := a.fetcher.Fetch(ctx, target); err == nil {
			if title, text, err := parseHTML(rawHTML); err == nil && strings.TrimSpace(text) != "" {
				return &pagesift.ContentResult{
					Title:   title,
					Text:    strings.TrimSpace(text),
					URL:     target,
					Method:  pagesift.MethodFallback,
					Success: true,
				}, nil
			}
		}
	}
	return a.stub(target), nil
}

// stub builds the minimal result for targets that could not be fetched.
func (a *FallbackAdapter) stub(target string) *pagesift.ContentResult {
	title := target
	if parsed, err := url.Parse(target); err == nil && parsed.Host != "" {
		title = parsed.Host
	}
	return &pagesift.ContentResult{
		Title:   title,
		Text:    "Content unavailable for " + target,
		URL:     target,
		Method:  pagesift.MethodFallback,
		Success: true,
	}
}
