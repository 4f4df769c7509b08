package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"golang.org/x/time/rate"
)

// Ensure SearchClient implements pdpmcp.SearchService at compile time.
var _ pdpmcp.SearchService = (*SearchClient)(nil)

// SearchClient calls the portal's Search API and normalizes its response
// into pdpmcp.SearchResult values. The API owns relevance ordering; the
// client preserves it and only truncates to the requested limit.
type SearchClient struct {
	client     *http.Client
	apiURL     string
	baseURL    string
	guard      *pdpmcp.Guard
	timeout    time.Duration
	maxRetries int
	userAgent  string
	sessionID  string
	proxyURL   string
	limiter    *rate.Limiter
	sleep      sleepFunc
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithSearchTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithSearchTimeout(d time.Duration) SearchOption {
	return func(c *SearchClient) { c.timeout = d }
}

// WithSearchMaxRetries sets the number of additional attempts after the
// first on transient failures. Defaults to DefaultMaxRetries.
func WithSearchMaxRetries(n int) SearchOption {
	return func(c *SearchClient) { c.maxRetries = n }
}

// WithSearchProxy routes requests through the given proxy URL.
func WithSearchProxy(proxyURL string) SearchOption {
	return func(c *SearchClient) { c.proxyURL = proxyURL }
}

// WithSearchUserAgent sets the User-Agent header.
func WithSearchUserAgent(ua string) SearchOption {
	return func(c *SearchClient) { c.userAgent = ua }
}

// WithSearchSessionID sets the X-MCP-Session-Id header.
func WithSearchSessionID(id string) SearchOption {
	return func(c *SearchClient) { c.sessionID = id }
}

// WithSearchRateLimit caps outbound requests at rps requests per second.
func WithSearchRateLimit(rps float64) SearchOption {
	return func(c *SearchClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithSearchSleep replaces the backoff sleep function. Intended for tests.
func WithSearchSleep(sleep func(ctx context.Context, d time.Duration) error) SearchOption {
	return func(c *SearchClient) { c.sleep = sleep }
}

// NewSearchClient creates a client for the Search API at apiURL. Result URLs
// are resolved against baseURL and filtered through guard so that only
// validated portal URLs are surfaced.
func NewSearchClient(apiURL, baseURL string, guard *pdpmcp.Guard, opts ...SearchOption) (*SearchClient, error) {
	c := &SearchClient{
		apiURL:     apiURL,
		baseURL:    strings.TrimRight(baseURL, "/"),
		guard:      guard,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		userAgent:  pdpmcp.DefaultUserAgent,
		sleep:      defaultSleep,
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := newClient(c.proxyURL)
	if err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.EINVALID, "invalid proxy URL %q: %v", c.proxyURL, err)
	}
	c.client = client

	return c, nil
}

// searchResponse mirrors the Search API's JSON shape. Fields the mapping
// does not consume are intentionally absent.
type searchResponse struct {
	SearchResponses []searchEntry `json:"searchResponses"`
}

type searchEntry struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SuggestionBody string `json:"suggestionBody"`
}

// Search queries the Search API for phrase and returns up to limit results
// in upstream order. Validation failures (empty phrase, out-of-range limit)
// are rejected with EINVALID before any network call; the limit is never
// silently clamped.
func (c *SearchClient) Search(ctx context.Context, phrase string, limit int) ([]pdpmcp.SearchResult, error) {
	if strings.TrimSpace(phrase) == "" {
		return nil, pdpmcp.Errorf(pdpmcp.EINVALID, "search phrase required")
	}
	if limit < pdpmcp.MinSearchLimit || limit > pdpmcp.MaxSearchLimit {
		return nil, pdpmcp.Errorf(pdpmcp.EINVALID, "limit %d out of range [%d, %d]", limit, pdpmcp.MinSearchLimit, pdpmcp.MaxSearchLimit)
	}

	requestURL := c.apiURL + "?searchQuery=" + url.QueryEscape(phrase)
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "malformed search response: %v", err)
	}

	// Rank is the upstream ordinal: the API's relevance position survives
	// even when intervening records are skipped, so only the top `limit`
	// upstream entries are considered.
	entries := parsed.SearchResponses
	if len(entries) > limit {
		entries = entries[:limit]
	}

	results := make([]pdpmcp.SearchResult, 0, len(entries))
	for i, entry := range entries {
		// The portal emits placeholder records without a summary; skip them.
		if entry.Summary == "" && entry.SuggestionBody == "" {
			continue
		}

		resultURL := c.resolveURL(entry.URL)
		if !c.guard.Allows(resultURL) {
			continue
		}

		excerpt := entry.Summary
		if excerpt == "" {
			excerpt = entry.SuggestionBody
		}

		results = append(results, pdpmcp.SearchResult{
			RankOrder: i + 1,
			URL:       resultURL,
			Title:     entry.Title,
			Context:   excerpt,
		})
	}

	return results, nil
}

// resolveURL joins a result path to the portal base. Absolute URLs pass
// through untouched.
func (c *SearchClient) resolveURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return c.baseURL + "/" + strings.TrimLeft(raw, "/")
}

// get performs a GET with the same bounded-retry behavior as the page
// fetcher, but maps terminal non-2xx statuses to EUPSTREAM: a failing
// Search API is an upstream fault, not a missing document.
func (c *SearchClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	var lastDetail string

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := waitLimiter(ctx, c.limiter); err != nil {
			return nil, err
		}

		body, retryAfter, done, err := c.attempt(ctx, requestURL)
		if done {
			return body, err
		}
		lastDetail = err.Error()

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, backoffDelay(attempt, retryAfter)); err != nil {
			return nil, err
		}
	}

	return nil, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "search API unavailable after %d attempts: %s", c.maxRetries+1, lastDetail)
}

func (c *SearchClient) attempt(ctx context.Context, requestURL string) (body []byte, retryAfter time.Duration, done bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, true, pdpmcp.Errorf(pdpmcp.EINVALID, "invalid search request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.sessionID != "" {
		req.Header.Set(SessionHeader, c.sessionID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, true, ctx.Err()
		}
		return nil, 0, false, err
	}
	defer resp.Body.Close()

	if retryableStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, parseRetryAfter(resp), false, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "search API returned HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, true, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "search API returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, true, ctx.Err()
		}
		return nil, 0, false, err
	}

	return raw, 0, true, nil
}
