package slog

import (
	"context"
	"log/slog"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Ensure RecommendationService implements pdpmcp.RecommendationService.
var _ pdpmcp.RecommendationService = (*RecommendationService)(nil)

// RecommendationService wraps a pdpmcp.RecommendationService with debug logging.
type RecommendationService struct {
	next   pdpmcp.RecommendationService
	logger *slog.Logger
}

// NewRecommendationService creates a logging decorator around next.
func NewRecommendationService(next pdpmcp.RecommendationService, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{next: next, logger: logger}
}

// Related delegates to the wrapped service, logging the outcome.
func (s *RecommendationService) Related(ctx context.Context, url string) ([]pdpmcp.RecommendationResult, error) {
	begin := time.Now()
	results, err := s.next.Related(ctx, url)
	if err != nil {
		s.logger.Error("related-content lookup failed",
			"url", url,
			"code", pdpmcp.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	s.logger.Debug("related-content lookup",
		"url", url,
		"results", len(results),
		"duration", time.Since(begin),
	)
	return results, nil
}
