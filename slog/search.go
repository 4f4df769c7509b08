package slog

import (
	"context"
	"log/slog"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Ensure SearchService implements pdpmcp.SearchService at compile time.
var _ pdpmcp.SearchService = (*SearchService)(nil)

// SearchService wraps a pdpmcp.SearchService with debug logging.
type SearchService struct {
	next   pdpmcp.SearchService
	logger *slog.Logger
}

// NewSearchService creates a logging decorator around next.
func NewSearchService(next pdpmcp.SearchService, logger *slog.Logger) *SearchService {
	return &SearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service, logging the outcome.
func (s *SearchService) Search(ctx context.Context, phrase string, limit int) ([]pdpmcp.SearchResult, error) {
	begin := time.Now()
	results, err := s.next.Search(ctx, phrase, limit)
	if err != nil {
		s.logger.Error("documentation search failed",
			"phrase", phrase,
			"code", pdpmcp.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	s.logger.Debug("documentation search",
		"phrase", phrase,
		"limit", limit,
		"results", len(results),
		"duration", time.Since(begin),
	)
	return results, nil
}
