// Package extract provides the extraction method adapters that read from a
// live rendering surface or a privileged channel, plus the minimal fallback
// method.
package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pagesift/pagesift"
)

// extractionScript pulls the visible title and text out of the rendered
// page. It prefers semantic containers and falls back to the whole body.
const extractionScript = `(() => {
	const pick = () => {
		for (const sel of ["article", "main", '[role="main"]']) {
			const el = document.querySelector(sel);
			if (el && el.innerText && el.innerText.trim().length > 0) return el;
		}
		return document.body;
	};
	const el = pick();
	return JSON.stringify({
		title: document.title || "",
		text: el ? el.innerText : "",
	});
})()`

// Ensure WebviewAdapter implements pagesift.Adapter at compile time.
var _ pagesift.Adapter = (*WebviewAdapter)(nil)

// WebviewAdapter runs an extraction script inside the live rendering
// surface. Without a live surface it reports itself unavailable.
type WebviewAdapter struct {
	surface pagesift.Surface
}

// NewWebviewAdapter creates a new WebviewAdapter.
func NewWebviewAdapter(surface pagesift.Surface) *WebviewAdapter {
	return &WebviewAdapter{surface: surface}
}

// Method returns the method identifier.
func (a *WebviewAdapter) Method() pagesift.Method {
	return pagesift.MethodWebview
}

// Available reports whether a live surface is attached.
func (a *WebviewAdapter) Available() bool {
	return a.surface != nil && a.surface.HasLiveSurface()
}

// Extract evaluates the extraction script in the surface.
func (a *WebviewAdapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	if !a.Available() {
		return nil, pagesift.Errorf(pagesift.EUNAVAILABLE, "no live rendering surface")
	}

	raw, err := a.surface.RunScript(ctx, extractionScript)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "malformed script result: %v", err)
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "surface returned no text for %q", target)
	}

	return &pagesift.ContentResult{
		Title:   payload.Title,
		Text:    text,
		URL:     target,
		Method:  pagesift.MethodWebview,
		Success: true,
	}, nil
}
