// Package htmltomarkdown wraps the html-to-markdown library to convert
// extracted documentation HTML into markdown suitable for direct
// consumption by a language model.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Ensure Converter implements pdpmcp.Converter at compile time.
var _ pdpmcp.Converter = (*Converter)(nil)

// Converter converts HTML to Markdown, preserving heading hierarchy, fenced
// code blocks with language hints, tables, and lists.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Relative links and images
// are rewritten to absolute URLs against pageURL so the output stands on
// its own.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", pdpmcp.Errorf(pdpmcp.EINVALID, "empty HTML input")
	}

	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", pdpmcp.Errorf(pdpmcp.ECONVERSION, "markdown conversion failed: %v", err)
	}

	return result, nil
}
