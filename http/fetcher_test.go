package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagesift/pagesift"
	pshttp "github.com/pagesift/pagesift/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_returns_the_body(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := pshttp.NewFetcher()

	body, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, body, "hello")
}

func TestFetcher_Fetch_rejects_non_200_responses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
	}))
	defer srv.Close()

	f := pshttp.NewFetcher()

	_, err := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, pagesift.EUNAVAILABLE, pagesift.ErrorCode(err))
}

func TestFetcher_Fetch_sends_the_configured_user_agent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := pshttp.NewFetcher(pshttp.WithUserAgent("pagesift/1.0"))

	_, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "pagesift/1.0", gotUA)
}

func TestDomainLimiter_Wait_spaces_out_requests(t *testing.T) {
	t.Parallel()

	limiter := pshttp.NewDomainLimiter(20) // 50ms between requests

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
}

func TestDomainLimiter_Wait_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	limiter := pshttp.NewDomainLimiter(0.1) // one request per 10s

	require.NoError(t, limiter.Wait(context.Background(), "example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "example.com")
	assert.Error(t, err)
}

func TestDomainLimiter_isolates_domains(t *testing.T) {
	t.Parallel()

	limiter := pshttp.NewDomainLimiter(0.1)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
	require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestChannel_Invoke_routes_extract_content_through_the_fetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("<html><body>fetched</body></html>"))
	}))
	defer srv.Close()

	ch := pshttp.NewChannel(pshttp.NewFetcher())

	resp, err := ch.Invoke(context.Background(), "extract-content", map[string]any{"url": srv.URL})

	require.NoError(t, err)
	html, _ := resp["html"].(string)
	assert.Contains(t, html, "fetched")
}

func TestChannel_Invoke_rejects_unknown_channels(t *testing.T) {
	t.Parallel()

	ch := pshttp.NewChannel(pshttp.NewFetcher())

	_, err := ch.Invoke(context.Background(), "no-such-channel", nil)

	assert.Equal(t, pagesift.ENOTFOUND, pagesift.ErrorCode(err))
}

func TestChannel_Invoke_requires_a_url(t *testing.T) {
	t.Parallel()

	ch := pshttp.NewChannel(pshttp.NewFetcher())

	_, err := ch.Invoke(context.Background(), "extract-content", map[string]any{})

	assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
}
