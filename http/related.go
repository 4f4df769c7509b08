package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"golang.org/x/time/rate"
)

// Ensure RelatedClient implements pdpmcp.RecommendationService at compile time.
var _ pdpmcp.RecommendationService = (*RelatedClient)(nil)

// RelatedClient calls the portal's Related-Content API. The API groups its
// recommendations by relation (highly rated, journey, new, similar); the
// client flattens the groups in that order, attaching each entry's relation
// label, and preserves ordering within each group.
type RelatedClient struct {
	client     *http.Client
	apiURL     string
	guard      *pdpmcp.Guard
	timeout    time.Duration
	maxRetries int
	userAgent  string
	sessionID  string
	proxyURL   string
	limiter    *rate.Limiter
	sleep      sleepFunc
}

// RelatedOption configures a RelatedClient.
type RelatedOption func(*RelatedClient)

// WithRelatedTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithRelatedTimeout(d time.Duration) RelatedOption {
	return func(c *RelatedClient) { c.timeout = d }
}

// WithRelatedMaxRetries sets the number of additional attempts after the
// first on transient failures. Defaults to DefaultMaxRetries.
func WithRelatedMaxRetries(n int) RelatedOption {
	return func(c *RelatedClient) { c.maxRetries = n }
}

// WithRelatedProxy routes requests through the given proxy URL.
func WithRelatedProxy(proxyURL string) RelatedOption {
	return func(c *RelatedClient) { c.proxyURL = proxyURL }
}

// WithRelatedUserAgent sets the User-Agent header.
func WithRelatedUserAgent(ua string) RelatedOption {
	return func(c *RelatedClient) { c.userAgent = ua }
}

// WithRelatedSessionID sets the X-MCP-Session-Id header.
func WithRelatedSessionID(id string) RelatedOption {
	return func(c *RelatedClient) { c.sessionID = id }
}

// WithRelatedRateLimit caps outbound requests at rps requests per second.
func WithRelatedRateLimit(rps float64) RelatedOption {
	return func(c *RelatedClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithRelatedSleep replaces the backoff sleep function. Intended for tests.
func WithRelatedSleep(sleep func(ctx context.Context, d time.Duration) error) RelatedOption {
	return func(c *RelatedClient) { c.sleep = sleep }
}

// NewRelatedClient creates a client for the Related-Content API at apiURL.
// Source URLs are validated through guard before any network call, and
// recommendation URLs that fail validation are dropped from results.
func NewRelatedClient(apiURL string, guard *pdpmcp.Guard, opts ...RelatedOption) (*RelatedClient, error) {
	c := &RelatedClient{
		apiURL:     apiURL,
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

// relatedResponse mirrors the Related-Content API's JSON shape. Each group
// is optional; missing groups simply contribute no results.
type relatedResponse struct {
	HighlyRated *relatedGroup `json:"highlyRated"`
	Journey     *journeyGroup `json:"journey"`
	New         *relatedGroup `json:"new"`
	Similar     *relatedGroup `json:"similar"`
}

type relatedGroup struct {
	Items []relatedItem `json:"items"`
}

type relatedItem struct {
	URL         string `json:"url"`
	AssetTitle  string `json:"assetTitle"`
	Abstract    string `json:"abstract"`
	DateCreated string `json:"dateCreated"`
}

type journeyGroup struct {
	Items []journeyIntent `json:"items"`
}

type journeyIntent struct {
	Intent string        `json:"intent"`
	URLs   []relatedItem `json:"urls"`
}

// Related returns pages related to rawURL in upstream group order. The URL
// is validated first; an empty result set is a valid outcome, not an error.
func (c *RelatedClient) Related(ctx context.Context, rawURL string) ([]pdpmcp.RecommendationResult, error) {
	normalized, err := c.guard.Validate(rawURL)
	if err != nil {
		return nil, err
	}

	requestURL := c.apiURL + "?url=" + url.QueryEscape(normalized)
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var parsed relatedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "malformed related-content response: %v", err)
	}

	results := []pdpmcp.RecommendationResult{}

	if parsed.HighlyRated != nil {
		for _, item := range parsed.HighlyRated.Items {
			results = c.append(results, item, relationLabel(item.Abstract, "Highly rated"))
		}
	}

	if parsed.Journey != nil {
		for _, intent := range parsed.Journey.Items {
			label := ""
			if intent.Intent != "" {
				label = "Intent: " + intent.Intent
			}
			for _, item := range intent.URLs {
				results = c.append(results, item, label)
			}
		}
	}

	if parsed.New != nil {
		for _, item := range parsed.New.Items {
			label := "New content"
			if item.DateCreated != "" {
				label = "New content added on " + item.DateCreated
			}
			results = c.append(results, item, label)
		}
	}

	if parsed.Similar != nil {
		for _, item := range parsed.Similar.Items {
			results = c.append(results, item, relationLabel(item.Abstract, "Similar content"))
		}
	}

	return results, nil
}

// append adds an item to results unless its URL fails guard validation.
// Every surfaced URL must be a valid portal URL.
func (c *RelatedClient) append(results []pdpmcp.RecommendationResult, item relatedItem, label string) []pdpmcp.RecommendationResult {
	if !c.guard.Allows(item.URL) {
		return results
	}
	return append(results, pdpmcp.RecommendationResult{
		URL:     item.URL,
		Title:   item.AssetTitle,
		Context: label,
	})
}

// relationLabel prefers the item's own abstract over the group fallback.
func relationLabel(abstract, fallback string) string {
	if abstract != "" {
		return abstract
	}
	return fallback
}

// get mirrors SearchClient.get: bounded transient retry, terminal non-2xx
// statuses mapped to EUPSTREAM.
func (c *RelatedClient) get(ctx context.Context, requestURL string) ([]byte, error) {
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

	return nil, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "related-content API unavailable after %d attempts: %s", c.maxRetries+1, lastDetail)
}

func (c *RelatedClient) attempt(ctx context.Context, requestURL string) (body []byte, retryAfter time.Duration, done bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, true, pdpmcp.Errorf(pdpmcp.EINVALID, "invalid related-content request: %v", err)
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
		return nil, parseRetryAfter(resp), false, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "related-content API returned HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, true, pdpmcp.Errorf(pdpmcp.EUPSTREAM, "related-content API returned HTTP %d", resp.StatusCode)
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
