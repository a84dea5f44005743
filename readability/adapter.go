// Package readability provides the network-fetch extraction method: the page
// is retrieved over plain HTTP and run through a readability pass.
package readability

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pagesift/pagesift"
)

// Ensure Adapter implements pagesift.Adapter at compile time.
var _ pagesift.Adapter = (*Adapter)(nil)

// Adapter fetches raw markup and extracts the main article content with
// go-readability. It requires a Fetcher; without one it reports itself
// unavailable.
type Adapter struct {
	fetcher pagesift.Fetcher
}

// NewAdapter creates a new Adapter backed by the fetcher.
func NewAdapter(fetcher pagesift.Fetcher) *Adapter {
	return &Adapter{fetcher: fetcher}
}

// Method returns the method identifier.
func (a *Adapter) Method() pagesift.Method {
	return pagesift.MethodReadability
}

// Available reports whether a fetcher is attached.
func (a *Adapter) Available() bool {
	return a.fetcher != nil
}

// Extract fetches the target and runs the readability pass.
func (a *Adapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	if a.fetcher == nil {
		return nil, pagesift.Errorf(pagesift.EUNAVAILABLE, "no fetcher attached")
	}

	rawHTML, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	pageURL, err := url.Parse(target)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EINVALID, "invalid target URL %q", target)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "readability produced no text for %q", target)
	}

	result := &pagesift.ContentResult{
		Title:       article.Title,
		Text:        text,
		URL:         target,
		ContentHTML: article.Content,
		Method:      pagesift.MethodReadability,
		Success:     true,
		Metadata:    map[string]string{},
	}
	if article.Byline != "" {
		result.Metadata["author"] = article.Byline
	}
	if article.Excerpt != "" {
		result.Metadata["excerpt"] = article.Excerpt
	}
	return result, nil
}
