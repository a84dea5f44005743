package classify_test

import (
	"testing"

	"github.com/pagesift/pagesift/classify"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_IsIntranet(t *testing.T) {
	t.Parallel()

	c := classify.NewClassifier()

	intranet := []string{
		"http://localhost:8080/admin",
		"http://127.0.0.1/status",
		"http://10.0.4.2/dashboard",
		"http://192.168.1.10/router",
		"http://172.16.0.1/",
		"http://wiki/internal-page",
		"http://printer.local/jobs",
	}
	for _, u := range intranet {
		assert.True(t, c.IsIntranet(u), u)
	}

	public := []string{
		"https://example.com/page",
		"https://8.8.8.8/",
		"https://sub.domain.example.org/path",
	}
	for _, u := range public {
		assert.False(t, c.IsIntranet(u), u)
	}
}

func TestClassifier_IsLikelyArticle(t *testing.T) {
	t.Parallel()

	c := classify.NewClassifier()

	articles := []string{
		"https://example.com/blog/understanding-dns",
		"https://example.com/news/local/flooding",
		"https://example.com/2024/03/spring-report",
		"https://example.com/why-the-sky-appears-blue-at-noon",
		"https://example.com/article/42",
	}
	for _, u := range articles {
		assert.True(t, c.IsLikelyArticle(u), u)
	}

	nonArticles := []string{
		"https://example.com/",
		"https://example.com/login",
		"https://example.com/products?id=7",
	}
	for _, u := range nonArticles {
		assert.False(t, c.IsLikelyArticle(u), u)
	}
}

func TestClassifier_IsSocialMedia(t *testing.T) {
	t.Parallel()

	c := classify.NewClassifier()

	social := []string{
		"https://twitter.com/someone/status/123",
		"https://x.com/someone",
		"https://www.facebook.com/group/456",
		"https://m.youtube.com/watch?v=abc",
		"https://reddit.com/r/golang",
	}
	for _, u := range social {
		assert.True(t, c.IsSocialMedia(u), u)
	}

	notSocial := []string{
		"https://example.com/twitter.com",
		"https://nottwitter.com/page",
		"https://example.com/",
	}
	for _, u := range notSocial {
		assert.False(t, c.IsSocialMedia(u), u)
	}
}
