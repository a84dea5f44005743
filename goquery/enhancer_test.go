package goquery_test

import (
	"context"
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/goquery"
	"github.com/pagesift/pagesift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhancer_Enhance_attaches_metadata(t *testing.T) {
	t.Parallel()

	e := goquery.NewEnhancer(nil)
	in := &pagesift.ContentResult{
		Title:       "Trail Guide",
		Text:        "The trail climbs steadily for three miles.",
		URL:         "https://hikes.example.com/trails/eagle-peak",
		ContentHTML: `<div><h2>Route</h2><p>The trail <a href="/map">climbs</a>.</p><img src="peak.jpg"></div>`,
		Success:     true,
	}

	out, err := e.Enhance(context.Background(), in, in.URL)

	require.NoError(t, err)
	assert.Equal(t, "hikes.example.com", out.Metadata["domain"])
	assert.Equal(t, "7", out.Metadata["wordCount"])
	assert.Equal(t, "1", out.Metadata["linkCount"])
	assert.Equal(t, "1", out.Metadata["imageCount"])
	assert.Equal(t, "1", out.Metadata["headingCount"])
}

func TestEnhancer_Enhance_does_not_mutate_the_input(t *testing.T) {
	t.Parallel()

	e := goquery.NewEnhancer(nil)
	in := &pagesift.ContentResult{
		Text:    "some words",
		URL:     "https://example.com/page",
		Success: true,
	}

	out, err := e.Enhance(context.Background(), in, in.URL)

	require.NoError(t, err)
	assert.NotSame(t, in, out)
	assert.Nil(t, in.Metadata, "input must be left untouched")
	assert.Empty(t, in.Title)
}

func TestEnhancer_Enhance_derives_a_title_from_the_URL(t *testing.T) {
	t.Parallel()

	e := goquery.NewEnhancer(nil)

	out, err := e.Enhance(context.Background(), &pagesift.ContentResult{
		Text:    "body",
		URL:     "https://example.com/articles/winter-cycling-tips",
		Success: true,
	}, "https://example.com/articles/winter-cycling-tips")

	require.NoError(t, err)
	assert.Equal(t, "winter cycling tips", out.Title)
}

func TestEnhancer_Enhance_uses_the_host_for_root_URLs(t *testing.T) {
	t.Parallel()

	e := goquery.NewEnhancer(nil)

	out, err := e.Enhance(context.Background(), &pagesift.ContentResult{
		Text:    "body",
		URL:     "https://example.com/",
		Success: true,
	}, "https://example.com/")

	require.NoError(t, err)
	assert.Equal(t, "example.com", out.Title)
}

func TestEnhancer_Enhance_fills_the_URL_from_the_target(t *testing.T) {
	t.Parallel()

	e := goquery.NewEnhancer(nil)

	out, err := e.Enhance(context.Background(), &pagesift.ContentResult{
		Text:    "body",
		Success: true,
	}, "https://example.com/docs/setup")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs/setup", out.URL)
	assert.Equal(t, "setup", out.Title)
}

func TestEnhancer_Enhance_converts_content_to_markdown(t *testing.T) {
	t.Parallel()

	converter := &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			return "# Route\n\nThe trail climbs.", nil
		},
	}
	e := goquery.NewEnhancer(converter)

	out, err := e.Enhance(context.Background(), &pagesift.ContentResult{
		Text:        "plain text",
		URL:         "https://example.com/route",
		ContentHTML: "<h1>Route</h1><p>The trail climbs.</p>",
		Success:     true,
	}, "https://example.com/route")

	require.NoError(t, err)
	assert.Equal(t, "# Route\n\nThe trail climbs.", out.Text)
}

func TestEnhancer_Enhance_rejects_nil_results(t *testing.T) {
	t.Parallel()

	_, err := goquery.NewEnhancer(nil).Enhance(context.Background(), nil, "https://example.com")

	assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
}
