package mock

import (
	"context"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

var _ pdpmcp.RecommendationService = (*RecommendationService)(nil)

// RecommendationService is a mock implementation of pdpmcp.RecommendationService.
type RecommendationService struct {
	RelatedFn func(ctx context.Context, url string) ([]pdpmcp.RecommendationResult, error)

	// RelatedCalls counts invocations.
	RelatedCalls int
}

func (s *RecommendationService) Related(ctx context.Context, url string) ([]pdpmcp.RecommendationResult, error) {
	s.RelatedCalls++
	return s.RelatedFn(ctx, url)
}
