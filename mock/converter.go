package mock

import pdpmcp "github.com/jpmorgan-payments/pdp-mcp"

var _ pdpmcp.Converter = (*Converter)(nil)

// Converter is a mock implementation of pdpmcp.Converter.
type Converter struct {
	ConvertFn func(html, pageURL string) (string, error)
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}
