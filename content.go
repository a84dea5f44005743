package pagesift

import (
	"context"
	"strings"
)

// Method identifies one concrete extraction technique. The set is closed:
// adapters register under one of these identifiers and the orchestrator
// resolves them through a table rather than by arbitrary string dispatch.
type Method string

const (
	// MethodWebview runs an extraction script inside a live rendering surface.
	MethodWebview Method = "webview"

	// MethodDOMProxy reads the rendered DOM out of the surface and parses it
	// out-of-surface.
	MethodDOMProxy Method = "dom-proxy"

	// MethodPrivileged fetches the page through a privileged channel.
	MethodPrivileged Method = "privileged"

	// MethodReadability fetches the page over the network and runs a
	// readability pass.
	MethodReadability Method = "readability"

	// MethodWorker marks results produced by the background worker fast path.
	MethodWorker Method = "worker"

	// MethodFallback marks results produced by the minimal fallback.
	MethodFallback Method = "fallback"

	// MethodError marks results returned when extraction failed entirely
	// before any method could run.
	MethodError Method = "error"
)

// UsesNetwork reports whether the method reaches out to the network itself
// rather than reading from an already-rendered surface. Network-based methods
// are skipped for intranet-shaped targets.
func (m Method) UsesNetwork() bool {
	return m == MethodPrivileged || m == MethodReadability
}

// StructuredNode is one node of worker-produced structured content.
type StructuredNode struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*StructuredNode `json:"children,omitempty"`
}

// ContentResult is the output of one extraction call. A result is created
// once per call and treated as immutable after return; enhancement produces
// a new value via Clone rather than mutating the original.
type ContentResult struct {
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	URL         string            `json:"url"`
	ContentHTML string            `json:"contentHtml,omitempty"`
	Method      Method            `json:"extractionMethod"`
	Success     bool              `json:"extractionSuccess"`
	DurationMS  int64             `json:"extractionTimeMs"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Structured  *StructuredNode   `json:"structuredContent,omitempty"`
}

// Clone returns a deep copy of the result. Metadata is copied; the
// structured content tree is shared since it is never mutated after creation.
func (r *ContentResult) Clone() *ContentResult {
	dup := *r
	if r.Metadata != nil {
		dup.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			dup.Metadata[k] = v
		}
	}
	return &dup
}

// IsValidResult is the single validation gate controlling strategy-walk
// short-circuiting. It rejects nil results, results with empty text, and
// results whose success flag is false.
func IsValidResult(r *ContentResult) bool {
	if r == nil {
		return false
	}
	if !r.Success {
		return false
	}
	return strings.TrimSpace(r.Text) != ""
}

// Options configures a single extraction call.
type Options struct {
	// PreferredMethod, if set, is attempted before anything else. A failed
	// preferred attempt is recorded but does not abort the call.
	PreferredMethod Method

	// Disabled lists methods that must not be attempted for this call.
	Disabled []Method

	// DisableWorker skips the worker fast path even when an executor is wired.
	DisableWorker bool

	// BypassCache skips the result cache lookup for this call. Successful
	// results are still written back.
	BypassCache bool
}

// MethodDisabled reports whether the options explicitly disable a method.
func (o Options) MethodDisabled(m Method) bool {
	for _, d := range o.Disabled {
		if d == m {
			return true
		}
	}
	return false
}

// Adapter wraps one concrete extraction technique behind a single signature.
type Adapter interface {
	// Method returns the identifier this adapter is registered under.
	Method() Method

	// Available reports whether the adapter's structural preconditions are
	// met (live surface attached, privileged channel present, and so on).
	// Unavailable adapters are removed from the strategy order.
	Available() bool

	// Extract turns the target page into a ContentResult. Implementations
	// return an error for any failure; they never panic. The orchestrator
	// treats errors and invalid results identically: log and continue.
	Extract(ctx context.Context, target string, opts Options) (*ContentResult, error)
}

// Enhancer post-processes a valid raw extraction result before it is handed
// back to the caller. Enhancement failures degrade gracefully to the
// pre-enhancement result.
type Enhancer interface {
	Enhance(ctx context.Context, result *ContentResult, url string) (*ContentResult, error)
}

// Converter transforms HTML content into clean text (Markdown).
type Converter interface {
	Convert(html string) (string, error)
}

// TaskKindParseMarkup is the task kind for the worker fast path: raw markup
// in, structured content out.
const TaskKindParseMarkup = "parse-markup"

// ParseRequest is the payload of a TaskKindParseMarkup task.
type ParseRequest struct {
	URL  string
	HTML string
}

// MarkupParser converts raw markup into a ContentResult with structured
// content. It is the CPU-heavy step the worker fast path offloads.
type MarkupParser interface {
	Parse(html, url string) (*ContentResult, error)
}

// ResultCache stores successful extraction results per URL.
// Get returns ENOTFOUND for URLs that have no cached result.
type ResultCache interface {
	Get(ctx context.Context, url string) (*ContentResult, error)
	Put(ctx context.Context, result *ContentResult) error
	Clear(ctx context.Context) error
}
