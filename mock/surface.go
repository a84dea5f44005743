package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Surface = (*Surface)(nil)

// Surface is a mock implementation of pagesift.Surface.
type Surface struct {
	HasLiveSurfaceFn func() bool
	RunScriptFn      func(ctx context.Context, code string) (string, error)
}

func (s *Surface) HasLiveSurface() bool {
	return s.HasLiveSurfaceFn()
}

func (s *Surface) RunScript(ctx context.Context, code string) (string, error) {
	return s.RunScriptFn(ctx, code)
}

var _ pagesift.PrivilegedChannel = (*PrivilegedChannel)(nil)

// PrivilegedChannel is a mock implementation of pagesift.PrivilegedChannel.
type PrivilegedChannel struct {
	InvokeFn func(ctx context.Context, channel string, payload map[string]any) (map[string]any, error)
}

func (c *PrivilegedChannel) Invoke(ctx context.Context, channel string, payload map[string]any) (map[string]any, error) {
	return c.InvokeFn(ctx, channel, payload)
}
