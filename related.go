package pdpmcp

import "context"

// RecommendationResult represents a related documentation page suggested by
// the portal's Related-Content API.
type RecommendationResult struct {
	// URL is the absolute documentation page URL. It has passed Guard
	// validation before being surfaced.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title"`

	// Context optionally describes why the page is related (e.g. "Highly
	// rated", "Intent: Build a checkout"). Supplied by the API and passed
	// through opaquely.
	Context string `json:"context,omitempty"`
}

// RecommendationService discovers content related to a documentation page.
type RecommendationService interface {
	// Related returns pages related to the given URL, preserving the
	// API's ordering. The URL is Guard-validated before any network call
	// (EINVALID on failure). A page with no known related content yields
	// an empty slice, not an error. Upstream failures yield EUPSTREAM.
	Related(ctx context.Context, url string) ([]RecommendationResult, error)
}
