// Package trafilatura provides the markup parser behind the worker fast
// path: raw HTML in, main content plus a structured tree out.
package trafilatura

import (
	"context"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pagesift/pagesift"
	"golang.org/x/net/html"
)

// Ensure Parser implements pagesift.MarkupParser at compile time.
var _ pagesift.MarkupParser = (*Parser)(nil)

// Parser wraps go-trafilatura to convert raw markup into structured content.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse processes raw HTML and returns the main content with a structured
// tree derived from the content node.
func (p *Parser) Parse(rawHTML, pageURL string) (*pagesift.ContentResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagesift.Errorf(pagesift.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if parsed, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = parsed
	}

	extracted, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(extracted.ContentText)
	if text == "" {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "no text content in markup")
	}

	result := &pagesift.ContentResult{
		Title:    extracted.Metadata.Title,
		Text:     text,
		URL:      pageURL,
		Success:  true,
		Metadata: map[string]string{},
	}
	if extracted.Metadata.Author != "" {
		result.Metadata["author"] = extracted.Metadata.Author
	}
	if extracted.Metadata.Sitename != "" {
		result.Metadata["sitename"] = extracted.Metadata.Sitename
	}
	if extracted.ContentNode != nil {
		result.Structured = buildTree(extracted.ContentNode)
	}
	return result, nil
}

// Handler adapts the parser to the executor's task contract. The payload
// must be a pagesift.ParseRequest.
func Handler(p *Parser) pagesift.TaskHandler {
	return func(ctx context.Context, payload any) (any, error) {
		req, ok := payload.(pagesift.ParseRequest)
		if !ok {
			return nil, pagesift.Errorf(pagesift.EINVALID, "parse-markup payload must be a ParseRequest")
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return p.Parse(req.HTML, req.URL)
	}
}

// buildTree converts an html.Node subtree into the structured content tree.
// Whitespace-only text nodes and non-element noise are dropped.
func buildTree(n *html.Node) *pagesift.StructuredNode {
	if n == nil {
		return nil
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		return &pagesift.StructuredNode{Tag: "#text", Text: text}
	}
	if n.Type != html.ElementNode && n.Type != html.DocumentNode {
		return nil
	}

	node := &pagesift.StructuredNode{Tag: n.Data}
	for _, attr := range n.Attr {
		if attr.Key == "href" || attr.Key == "src" {
			if node.Attrs == nil {
				node.Attrs = make(map[string]string)
			}
			node.Attrs[attr.Key] = attr.Val
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := buildTree(c); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}
