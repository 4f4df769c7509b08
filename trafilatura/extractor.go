// Package trafilatura provides a fallback pdpmcp.Extractor built on
// go-trafilatura's readability heuristics. It is consulted when the
// selector-based extractor finds no content region in a page.
package trafilatura

import (
	"bytes"
	"strings"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pdpmcp.Extractor at compile time.
var _ pdpmcp.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*pdpmcp.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "content extraction failed: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "failed to render content: %v", err)
		}
	}

	return &pdpmcp.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
