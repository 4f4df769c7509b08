package mock

import pdpmcp "github.com/jpmorgan-payments/pdp-mcp"

var _ pdpmcp.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pdpmcp.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pdpmcp.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pdpmcp.ExtractResult, error) {
	return e.ExtractFn(html)
}
