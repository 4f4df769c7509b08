package pdpmcp

import "context"

// Search limit bounds. A limit outside [MinSearchLimit, MaxSearchLimit] is
// rejected with EINVALID rather than silently clamped; DefaultSearchLimit
// applies when the caller does not provide one.
const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 50
	DefaultSearchLimit = 10
)

// SearchResult represents a single entry returned by the portal's Search API.
type SearchResult struct {
	// RankOrder is the 1-based relevance ranking as ordered by the API
	// (lower is more relevant). It is preserved, never recomputed locally.
	RankOrder int `json:"rank_order"`

	// URL is the absolute documentation page URL. It has passed Guard
	// validation before being surfaced.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title"`

	// Context is an optional excerpt or summary from the document.
	Context string `json:"context,omitempty"`
}

// SearchService searches the portal documentation.
type SearchService interface {
	// Search returns up to limit results for the phrase, in the relevance
	// order chosen by the portal's Search API.
	//
	// An empty phrase or a limit outside [MinSearchLimit, MaxSearchLimit]
	// fails with EINVALID before any network call. Upstream failures
	// (non-2xx status, malformed response) fail with EUPSTREAM.
	Search(ctx context.Context, phrase string, limit int) ([]SearchResult, error)
}
