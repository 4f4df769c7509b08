package pdpmcp

import (
	"context"
	"fmt"
	"strings"
)

// MaxReadLength bounds the markdown returned by a single ReadDocumentation
// call so long pages do not flood the caller's context. Content beyond the
// window is reachable by paging with the start index.
const MaxReadLength = 5000

// NoMoreContent is returned when the start index lies at or beyond the end
// of the page content.
const NoMoreContent = "No more content available."

// Service is the documentation access facade composing the read pipeline
// (Guard, Fetcher, Extractor, Converter) with the Search and Related-Content
// API clients. It holds no per-call state; a Service is safe for concurrent
// use and every call is independently retryable by the caller.
type Service struct {
	Guard     *Guard
	Fetcher   Fetcher
	Extractor Extractor

	// Fallback, when set, is consulted if Extractor fails or finds no
	// content region. Selector heuristics occasionally miss on pages with
	// unusual markup; the fallback trades precision for coverage.
	Fallback Extractor

	Converter Converter
	Search    SearchService
	Related   RecommendationService
}

// ReadDocumentation validates url, fetches the page, isolates its main
// content, and returns it as markdown. Output is windowed to MaxReadLength
// starting at startIndex; when content remains past the window, a
// continuation hint naming the next start index is appended. Any stage
// failure surfaces as a coded error, never partial or garbled content.
func (s *Service) ReadDocumentation(ctx context.Context, url string, startIndex int) (string, error) {
	if startIndex < 0 {
		return "", Errorf(EINVALID, "start index %d must not be negative", startIndex)
	}

	normalized, err := s.Guard.Validate(url)
	if err != nil {
		return "", err
	}

	rawHTML, err := s.Fetcher.Fetch(ctx, normalized)
	if err != nil {
		return "", err
	}

	result, err := s.extract(rawHTML)
	if err != nil {
		return "", err
	}

	markdown, err := s.Converter.Convert(result.ContentHTML, normalized)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(markdown) == "" {
		return "", Errorf(ECONVERSION, "page %s produced no content after conversion", normalized)
	}

	return windowContent(markdown, startIndex), nil
}

// windowContent slices content to at most MaxReadLength runes from
// startIndex. Indexes count runes, not bytes, so a window never splits a
// multi-byte character.
func windowContent(content string, startIndex int) string {
	runes := []rune(content)
	if startIndex >= len(runes) {
		return NoMoreContent
	}

	end := startIndex + MaxReadLength
	if end > len(runes) {
		end = len(runes)
	}

	window := string(runes[startIndex:end])
	if end < len(runes) {
		window += fmt.Sprintf("\n\nContent truncated. Call the read_documentation tool with start_index=%d to get more content.", end)
	}
	return window
}

func (s *Service) extract(rawHTML string) (*ExtractResult, error) {
	result, err := s.Extractor.Extract(rawHTML)
	if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
		return result, nil
	}

	if s.Fallback != nil {
		if fallback, ferr := s.Fallback.Extract(rawHTML); ferr == nil && strings.TrimSpace(fallback.ContentHTML) != "" {
			return fallback, nil
		}
	}

	if err != nil {
		return nil, err
	}
	return nil, Errorf(ECONVERSION, "no content could be extracted from the page")
}

// SearchDocumentation searches the portal for the phrase. A zero limit means
// "not provided" and receives DefaultSearchLimit; everything else is
// delegated to the SearchService, which rejects out-of-range limits.
func (s *Service) SearchDocumentation(ctx context.Context, phrase string, limit int) ([]SearchResult, error) {
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	return s.Search.Search(ctx, phrase, limit)
}

// RelatedDocumentation returns pages related to url, delegating to the
// RecommendationService.
func (s *Service) RelatedDocumentation(ctx context.Context, url string) ([]RecommendationResult, error) {
	return s.Related.Related(ctx, url)
}
