// Package gemini provides an optional enhancement stage that attaches an
// LLM-generated summary to extraction results.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pagesift/pagesift"
)

const model = "gemini-2.5-flash"

// maxContentChars bounds how much extracted text is sent to the model.
const maxContentChars = 24_000

// Ensure Summarizer implements pagesift.Enhancer at compile time.
var _ pagesift.Enhancer = (*Summarizer)(nil)

// Summarizer decorates another Enhancer and adds a short summary to the
// result metadata. Summarization failures degrade gracefully: the result of
// the inner enhancement is returned unchanged.
type Summarizer struct {
	client *genai.Client
	next   pagesift.Enhancer
}

// NewSummarizer creates a new Summarizer. The inner enhancer is optional.
func NewSummarizer(client *genai.Client, next pagesift.Enhancer) *Summarizer {
	return &Summarizer{client: client, next: next}
}

// Enhance runs the inner enhancement and then attaches a summary.
func (s *Summarizer) Enhance(ctx context.Context, result *pagesift.ContentResult, url string) (*pagesift.ContentResult, error) {
	out := result
	if s.next != nil {
		enhanced, err := s.next.Enhance(ctx, result, url)
		if err != nil {
			return nil, err
		}
		out = enhanced
	} else if out != nil {
		out = out.Clone()
	}
	if out == nil {
		return nil, pagesift.Errorf(pagesift.EINVALID, "nil result")
	}

	summary, err := s.summarize(ctx, out)
	if err != nil || summary == "" {
		return out, nil
	}

	if out.Metadata == nil {
		out.Metadata = make(map[string]string)
	}
	out.Metadata["summary"] = summary
	return out, nil
}

// summarize asks the model for a short summary of the extracted content.
func (s *Summarizer) summarize(ctx context.Context, result *pagesift.ContentResult) (string, error) {
	if s.client == nil {
		return "", pagesift.Errorf(pagesift.EUNAVAILABLE, "no gemini client")
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", pagesift.Errorf(pagesift.EINVALID, "nothing to summarize")
	}

	res, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(result)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", pagesift.Errorf(pagesift.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(res.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize web page content. Respond with two or three plain sentences covering the page's main points. Do not add commentary or formatting.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the extracted content.
func BuildUserPrompt(result *pagesift.ContentResult) string {
	text := result.Text
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}

	var sb strings.Builder
	sb.WriteString("<page>\n")
	if result.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", result.Title)
	}
	if result.URL != "" {
		fmt.Fprintf(&sb, "<source>%s</source>\n", result.URL)
	}
	fmt.Fprintf(&sb, "<content>%s</content>\n", text)
	sb.WriteString("</page>\n\nSummarize this page.")
	return sb.String()
}
