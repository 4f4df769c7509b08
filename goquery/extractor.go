// Package goquery provides a CSS-selector based implementation of
// pdpmcp.Extractor that isolates the main content of a portal documentation
// page and strips navigation and boilerplate elements.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Ensure Extractor implements pdpmcp.Extractor at compile time.
var _ pdpmcp.Extractor = (*Extractor)(nil)

// contentSelectors identify the main content container, tried in order.
// The portal wraps article bodies in #main-content; the remaining selectors
// cover common layout variants.
var contentSelectors = []string{
	"main",
	"article",
	"#main-content",
	".main-content",
	"#content",
	".content",
	"div[role='main']",
}

// stripSelectors are removed from the selected content before it is
// returned. They cover standard non-content HTML elements plus the portal's
// feedback, cookie, and legal widgets.
var stripSelectors = []string{
	"script",
	"style",
	"noscript",
	"meta",
	"link",
	"nav",
	"aside",
	"header",
	"footer",
	".prev-next",
	"#main-col-footer",
	"#quick-feedback-yes",
	"#quick-feedback-no",
	".page-loading-indicator",
	"#tools-panel",
	".doc-cookie-banner",
	".cookie-banner",
	".cookie-notice",
	".feedback-container",
	".feedback-section",
	".copyright-section",
	".legal-section",
	".terms-section",
}

// Extractor extracts main content from documentation pages using CSS
// selector heuristics. Extraction is deterministic.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with boilerplate
// removed. Falls back to <body> when no content container matches. Returns
// ECONVERSION for empty input or when nothing remains after stripping.
func (e *Extractor) Extract(rawHTML string) (*pdpmcp.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "failed to parse HTML: %v", err)
	}

	content := findContent(doc)
	if content == nil {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "no content area found in page")
	}

	for _, selector := range stripSelectors {
		content.Find(selector).Remove()
	}

	contentHTML, err := content.Html()
	if err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "failed to render content: %v", err)
	}
	if strings.TrimSpace(contentHTML) == "" {
		return nil, pdpmcp.Errorf(pdpmcp.ECONVERSION, "page has no content after boilerplate removal")
	}

	return &pdpmcp.ExtractResult{
		Title:       extractTitle(doc),
		ContentHTML: contentHTML,
	}, nil
}

// findContent returns the first matching content container, or <body> when
// none of the selectors match.
func findContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return nil
}

// extractTitle reads the page title from og:title metadata or <title>.
func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok && title != "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
