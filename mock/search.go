package mock

import (
	"context"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

var _ pdpmcp.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of pdpmcp.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, phrase string, limit int) ([]pdpmcp.SearchResult, error)

	// SearchCalls counts invocations, for zero-network-call assertions.
	SearchCalls int
}

func (s *SearchService) Search(ctx context.Context, phrase string, limit int) ([]pdpmcp.SearchResult, error) {
	s.SearchCalls++
	return s.SearchFn(ctx, phrase, limit)
}
