package http

import (
	"context"

	"github.com/pagesift/pagesift"
)

// Ensure Channel implements pagesift.PrivilegedChannel at compile time.
var _ pagesift.PrivilegedChannel = (*Channel)(nil)

// ChannelHandler handles one named privileged channel.
type ChannelHandler func(ctx context.Context, payload map[string]any) (map[string]any, error)

// Channel routes privileged invocations to registered handlers. The default
// set contains an extract-content handler backed by an HTTP fetcher, which
// makes cross-origin fetches possible where the rendering surface is
// restricted by the page's own policies.
type Channel struct {
	handlers map[string]ChannelHandler
}

// NewChannel creates a Channel with the standard extract-content handler
// backed by the given fetcher.
func NewChannel(fetcher pagesift.Fetcher) *Channel {
	c := &Channel{handlers: make(map[string]ChannelHandler)}
	c.Register("extract-content", func(ctx context.Context, payload map[string]any) (map[string]any, error) {
		target, _ := payload["url"].(string)
		if target == "" {
			return nil, pagesift.Errorf(pagesift.EINVALID, "extract-content requires a url")
		}
		rawHTML, err := fetcher.Fetch(ctx, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"html": rawHTML}, nil
	})
	return c
}

// Register adds or replaces the handler for a named channel.
func (c *Channel) Register(name string, h ChannelHandler) {
	c.handlers[name] = h
}

// Invoke dispatches to the handler registered for the channel.
func (c *Channel) Invoke(ctx context.Context, channel string, payload map[string]any) (map[string]any, error) {
	h, ok := c.handlers[channel]
	if !ok {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "no handler for channel %q", channel)
	}
	return h(ctx, payload)
}
