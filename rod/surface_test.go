package rod_test

import (
	"context"
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/rod"
	"github.com/stretchr/testify/assert"
)

func TestSurface_without_a_browser_reports_not_live(t *testing.T) {
	t.Parallel()

	s := rod.NewSurface(nil)

	assert.False(t, s.HasLiveSurface())
}

func TestSurface_RunScript_requires_an_open_page(t *testing.T) {
	t.Parallel()

	s := rod.NewSurface(nil)

	_, err := s.RunScript(context.Background(), "1 + 1")

	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestSurface_Open_requires_a_browser(t *testing.T) {
	t.Parallel()

	s := rod.NewSurface(nil)

	err := s.Open(context.Background(), "https://example.com")

	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestSurface_Close_is_safe_without_a_browser(t *testing.T) {
	t.Parallel()

	assert.NoError(t, rod.NewSurface(nil).Close())
}
