package goquery

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagesift/pagesift"
)

// Ensure Enhancer implements pagesift.Enhancer at compile time.
var _ pagesift.Enhancer = (*Enhancer)(nil)

// Enhancer normalizes extraction results into their canonical form: a title
// is always present, derived metadata is attached, and when a converter is
// configured the content HTML is rendered as markdown. The input result is
// never mutated.
type Enhancer struct {
	converter pagesift.Converter
}

// NewEnhancer creates a new Enhancer. The converter is optional; without it
// the text field is left as extracted.
func NewEnhancer(converter pagesift.Converter) *Enhancer {
	return &Enhancer{converter: converter}
}

// Enhance returns an enriched copy of the result.
func (e *Enhancer) Enhance(ctx context.Context, result *pagesift.ContentResult, target string) (*pagesift.ContentResult, error) {
	if result == nil {
		return nil, pagesift.Errorf(pagesift.EINVALID, "nil result")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := result.Clone()
	if out.Metadata == nil {
		out.Metadata = make(map[string]string)
	}
	if out.URL == "" {
		out.URL = target
	}

	if strings.TrimSpace(out.Title) == "" {
		out.Title = titleFromURL(out.URL)
	}

	if parsed, err := url.Parse(out.URL); err == nil && parsed.Host != "" {
		out.Metadata["domain"] = parsed.Host
	}
	out.Metadata["wordCount"] = strconv.Itoa(len(strings.Fields(out.Text)))

	if out.ContentHTML != "" {
		if err := e.enhanceFromHTML(out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// enhanceFromHTML derives link, image and heading counts from the content
// markup and optionally converts it to markdown.
func (e *Enhancer) enhanceFromHTML(out *pagesift.ContentResult) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.ContentHTML))
	if err != nil {
		return pagesift.Errorf(pagesift.EINTERNAL, "parse content html: %v", err)
	}

	out.Metadata["linkCount"] = strconv.Itoa(doc.Find("a[href]").Length())
	out.Metadata["imageCount"] = strconv.Itoa(doc.Find("img").Length())
	out.Metadata["headingCount"] = strconv.Itoa(doc.Find("h1,h2,h3,h4,h5,h6").Length())

	if e.converter != nil {
		markdown, err := e.converter.Convert(out.ContentHTML)
		if err != nil {
			return err
		}
		if strings.TrimSpace(markdown) != "" {
			out.Text = markdown
		}
	}
	return nil
}

// titleFromURL derives a readable title from the target URL, preferring the
// last path segment over the bare host.
func titleFromURL(target string) string {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return target
	}
	segment := strings.Trim(parsed.Path, "/")
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	if segment == "" {
		return parsed.Host
	}
	segment = strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	return segment
}
