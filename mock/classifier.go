package mock

import "github.com/pagesift/pagesift"

var _ pagesift.URLClassifier = (*URLClassifier)(nil)

// URLClassifier is a mock implementation of pagesift.URLClassifier.
// Nil function fields report false.
type URLClassifier struct {
	IsIntranetFn      func(url string) bool
	IsLikelyArticleFn func(url string) bool
	IsSocialMediaFn   func(url string) bool
}

func (c *URLClassifier) IsIntranet(url string) bool {
	if c.IsIntranetFn == nil {
		return false
	}
	return c.IsIntranetFn(url)
}

func (c *URLClassifier) IsLikelyArticle(url string) bool {
	if c.IsLikelyArticleFn == nil {
		return false
	}
	return c.IsLikelyArticleFn(url)
}

func (c *URLClassifier) IsSocialMedia(url string) bool {
	if c.IsSocialMediaFn == nil {
		return false
	}
	return c.IsSocialMediaFn(url)
}
