// Package goquery provides DOM-based extraction and result enhancement on
// top of parsed document trees.
package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagesift/pagesift"
)

// outerHTMLScript serializes the rendered document so it can be parsed
// out-of-process.
const outerHTMLScript = `document.documentElement.outerHTML`

// noiseSelectors match elements that carry navigation and chrome rather
// than content.
var noiseSelectors = []string{
	"script",
	"style",
	"noscript",
	"nav",
	"header",
	"footer",
	"aside",
	"form",
	"iframe",
	".advertisement",
	".sidebar",
	".cookie-banner",
}

// contentSelectors are tried in order when picking the content container.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".content",
}

// Ensure DOMAdapter implements pagesift.Adapter at compile time.
var _ pagesift.Adapter = (*DOMAdapter)(nil)

// DOMAdapter pulls the serialized DOM out of the live surface and extracts
// content from it with CSS selectors. Unlike the in-surface method it does
// the heavy lifting outside the page, so it works on pages whose scripts
// interfere with injected extraction code.
type DOMAdapter struct {
	surface pagesift.Surface
}

// NewDOMAdapter creates a new DOMAdapter.
func NewDOMAdapter(surface pagesift.Surface) *DOMAdapter {
	return &DOMAdapter{surface: surface}
}

// Method returns the method identifier.
func (a *DOMAdapter) Method() pagesift.Method {
	return pagesift.MethodDOMProxy
}

// Available reports whether a live surface is attached.
func (a *DOMAdapter) Available() bool {
	return a.surface != nil && a.surface.HasLiveSurface()
}

// Extract serializes the surface DOM and extracts the content container.
func (a *DOMAdapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	if !a.Available() {
		return nil, pagesift.Errorf(pagesift.EUNAVAILABLE, "no live rendering surface")
	}

	rawHTML, err := a.surface.RunScript(ctx, outerHTMLScript)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "parse dom: %v", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	container := doc.Find("body")
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			container = s
			break
		}
	}

	text := normalizeWhitespace(container.Text())
	if text == "" {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "dom contains no text for %q", target)
	}

	contentHTML, _ := container.Html()

	return &pagesift.ContentResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Text:        text,
		URL:         target,
		ContentHTML: contentHTML,
		Method:      pagesift.MethodDOMProxy,
		Success:     true,
	}, nil
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
