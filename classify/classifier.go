// Package classify provides URL-shape predicates for strategy ordering.
package classify

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/pagesift/pagesift"
)

// Ensure Classifier implements pagesift.URLClassifier at compile time.
var _ pagesift.URLClassifier = (*Classifier)(nil)

// articlePathPattern matches path segments common to long-form content.
var articlePathPattern = regexp.MustCompile(`(?i)/(article|articles|blog|post|posts|news|story|stories)(/|$)`)

// datePathPattern matches /YYYY/MM/ style paths used by publishing systems.
var datePathPattern = regexp.MustCompile(`/20\d{2}/\d{1,2}(/|$)`)

// socialHosts are the second-level domains of major social media sites.
var socialHosts = map[string]bool{
	"twitter.com":     true,
	"x.com":           true,
	"facebook.com":    true,
	"instagram.com":   true,
	"linkedin.com":    true,
	"reddit.com":      true,
	"tiktok.com":      true,
	"youtube.com":     true,
	"threads.net":     true,
	"bsky.app":        true,
	"mastodon.social": true,
}

// Classifier classifies URLs by shape alone. It never touches the network.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsIntranet reports whether the URL points at a loopback, private-range, or
// dotless host.
func (c *Classifier) IsIntranet(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}

	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	// Dotless hosts resolve through internal search domains.
	if !strings.Contains(host, ".") {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	return false
}

// IsLikelyArticle reports whether the URL path looks like long-form content.
func (c *Classifier) IsLikelyArticle(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	path := parsed.Path
	if articlePathPattern.MatchString(path) {
		return true
	}
	if datePathPattern.MatchString(path) {
		return true
	}
	// Long hyphenated slugs are typical of article permalinks.
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Count(last, "-") >= 3
}

// IsSocialMedia reports whether the URL belongs to a known social media site.
func (c *Classifier) IsSocialMedia(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if socialHosts[host] {
		return true
	}
	// Match subdomains like www.facebook.com or m.youtube.com.
	for domain := range socialHosts {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
