// Package rod provides a Chrome-backed rendering surface and a rendered-page
// fetcher using browser automation.
package rod

import (
	"context"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pagesift/pagesift"
)

// Ensure Surface implements pagesift.Surface at compile time.
var _ pagesift.Surface = (*Surface)(nil)

// Surface is a live rendering surface backed by a headless Chrome page.
// Scripts run in the page currently open on the surface.
//
// Surface is safe for concurrent use by multiple goroutines.
type Surface struct {
	manager *BrowserManager
	mu      sync.Mutex
	page    *rod.Page
}

// NewSurface creates a Surface on top of a browser manager. The surface has
// no live page until Open is called.
func NewSurface(bm *BrowserManager) *Surface {
	return &Surface{manager: bm}
}

// Open navigates the surface to the given URL, replacing any page that was
// open before.
func (s *Surface) Open(ctx context.Context, url string) error {
	if s.manager == nil {
		return pagesift.Errorf(pagesift.EUNAVAILABLE, "no browser attached to surface")
	}

	page, err := s.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return err
	}
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		page.Close()
		return err
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return err
	}
	s.manager.IncrementPageCount()

	s.mu.Lock()
	old := s.page
	s.page = page
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// HasLiveSurface reports whether a page is currently open.
func (s *Surface) HasLiveSurface() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager != nil && s.page != nil
}

// RunScript evaluates the script in the open page and returns its result as
// a string.
func (s *Surface) RunScript(ctx context.Context, code string) (string, error) {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()

	if page == nil {
		return "", pagesift.Errorf(pagesift.EUNAVAILABLE, "no page open on surface")
	}

	obj, err := page.Context(ctx).Eval(`code => String(eval(code))`, code)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

// Close releases the open page and the underlying browser.
func (s *Surface) Close() error {
	s.mu.Lock()
	page := s.page
	s.page = nil
	s.mu.Unlock()

	if page != nil {
		_ = page.Close()
	}
	if s.manager != nil {
		return s.manager.Close()
	}
	return nil
}
