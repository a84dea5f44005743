package extract

import (
	"context"
	"strings"

	"github.com/pagesift/pagesift"
)

// ChannelExtractContent is the privileged channel the adapter invokes.
const ChannelExtractContent = "extract-content"

// Ensure PrivilegedAdapter implements pagesift.Adapter at compile time.
var _ pagesift.Adapter = (*PrivilegedAdapter)(nil)

// PrivilegedAdapter fetches page content through a privileged channel. The
// channel side may return ready-made text or raw HTML; raw HTML is reduced
// to text locally.
type PrivilegedAdapter struct {
	channel pagesift.PrivilegedChannel
}

// NewPrivilegedAdapter creates a new PrivilegedAdapter.
func NewPrivilegedAdapter(channel pagesift.PrivilegedChannel) *PrivilegedAdapter {
	return &PrivilegedAdapter{channel: channel}
}

// Method returns the method identifier.
func (a *PrivilegedAdapter) Method() pagesift.Method {
	return pagesift.MethodPrivileged
}

// Available reports whether a privileged channel is attached.
func (a *PrivilegedAdapter) Available() bool {
	return a.channel != nil
}

// Extract invokes the extract-content channel for the target.
func (a *PrivilegedAdapter) Extract(ctx context.Context, target string, opts pagesift.Options) (*pagesift.ContentResult, error) {
	if a.channel == nil {
		return nil, pagesift.Errorf(pagesift.EUNAVAILABLE, "no privileged channel")
	}

	resp, err := a.channel.Invoke(ctx, ChannelExtractContent, map[string]any{"url": target})
	if err != nil {
		return nil, err
	}

	title, _ := resp["title"].(string)
	text, _ := resp["text"].(string)
	rawHTML, _ := resp["html"].(string)

	if strings.TrimSpace(text) == "" && rawHTML != "" {
		title2, text2, err := parseHTML(rawHTML)
		if err != nil {
			return nil, err
		}
		if title == "" {
			title = title2
		}
		text = text2
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "privileged fetch returned no content for %q", target)
	}

	return &pagesift.ContentResult{
		Title:   title,
		Text:    text,
		URL:     target,
		Method:  pagesift.MethodPrivileged,
		Success: true,
	}, nil
}
