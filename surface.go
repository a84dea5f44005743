package pagesift

import "context"

// Surface is a handle to a live rendering surface (an embedded browser view).
// Its absence disables the in-surface extraction methods.
type Surface interface {
	// HasLiveSurface reports whether a page is currently rendered and
	// scriptable.
	HasLiveSurface() bool

	// RunScript evaluates a script in the surface and returns its result
	// serialized as a string. The context controls timeout and cancellation.
	RunScript(ctx context.Context, code string) (string, error)
}

// PrivilegedChannel invokes named operations on a privileged collaborator
// (out-of-process fetch and similar). Its absence disables the privileged
// extraction method.
type PrivilegedChannel interface {
	Invoke(ctx context.Context, channel string, payload map[string]any) (map[string]any, error)
}

// Fetcher retrieves raw HTML from URLs over plain HTTP.
// It backs the network-based extraction methods and the worker fast path.
type Fetcher interface {
	// Fetch retrieves the markup at url. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// URLClassifier provides the pure URL-shape predicates feeding strategy
// ordering heuristics.
type URLClassifier interface {
	// IsIntranet reports whether the URL points at an intranet or loopback
	// host. Network-based methods are skipped for such targets.
	IsIntranet(url string) bool

	// IsLikelyArticle reports whether the URL looks like a long-form article.
	IsLikelyArticle(url string) bool

	// IsSocialMedia reports whether the URL belongs to a social media site.
	IsSocialMedia(url string) bool
}
