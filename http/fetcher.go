package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"golang.org/x/time/rate"
)

// Ensure Fetcher implements pdpmcp.Fetcher at compile time.
var _ pdpmcp.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documentation pages over HTTP with bounded retries.
// Transient failures (connection errors, timeouts, 5xx, 429) are retried
// with exponential backoff; 4xx responses fail immediately since retrying
// would not help.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	userAgent  string
	sessionID  string
	proxyURL   string
	limiter    *rate.Limiter
	sleep      sleepFunc
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxRetries sets the number of additional attempts after the first.
// Defaults to DefaultMaxRetries.
func WithMaxRetries(n int) FetcherOption {
	return func(f *Fetcher) { f.maxRetries = n }
}

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxyURL string) FetcherOption {
	return func(f *Fetcher) { f.proxyURL = proxyURL }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithSessionID sets the X-MCP-Session-Id header sent with every request.
func WithSessionID(id string) FetcherOption {
	return func(f *Fetcher) { f.sessionID = id }
}

// WithRateLimit caps outbound requests toward the portal at rps requests per
// second with no bursting.
func WithRateLimit(rps float64) FetcherOption {
	return func(f *Fetcher) { f.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithSleep replaces the backoff sleep function. Intended for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) FetcherOption {
	return func(f *Fetcher) { f.sleep = sleep }
}

// NewFetcher creates a new HTTP page fetcher.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		userAgent:  pdpmcp.DefaultUserAgent,
		sleep:      defaultSleep,
	}
	for _, opt := range opts {
		opt(f)
	}

	client, err := newClient(f.proxyURL)
	if err != nil {
		return nil, pdpmcp.Errorf(pdpmcp.EINVALID, "invalid proxy URL %q: %v", f.proxyURL, err)
	}
	f.client = client

	return f, nil
}

// Fetch retrieves the HTML body of url. The context aborts in-flight
// attempts and pending backoff sleeps; the per-attempt timeout bounds each
// try individually so a stalled connection cannot consume the whole retry
// budget.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastDetail string

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if err := waitLimiter(ctx, f.limiter); err != nil {
			return "", err
		}

		body, retryAfter, done, err := f.attempt(ctx, url)
		if done {
			return body, err
		}
		lastDetail = err.Error()

		if attempt == f.maxRetries {
			break
		}
		if err := f.sleep(ctx, backoffDelay(attempt, retryAfter)); err != nil {
			return "", err
		}
	}

	return "", pdpmcp.Errorf(pdpmcp.EUNAVAILABLE, "failed to fetch %s after %d attempts: %s", url, f.maxRetries+1, lastDetail)
}

// attempt performs a single GET. done reports a terminal outcome (success or
// a non-retryable failure); otherwise err describes the transient failure
// and retryAfter carries the server's backoff hint, if any.
func (f *Fetcher) attempt(ctx context.Context, url string) (body string, retryAfter time.Duration, done bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, true, pdpmcp.Errorf(pdpmcp.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.sessionID != "" {
		req.Header.Set(SessionHeader, f.sessionID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Abandoned callers should not burn the retry budget.
		if ctx.Err() != nil {
			return "", 0, true, ctx.Err()
		}
		return "", 0, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Handled below.
	case retryableStatus(resp.StatusCode):
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", parseRetryAfter(resp), false, pdpmcp.Errorf(pdpmcp.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return "", 0, true, pdpmcp.Errorf(pdpmcp.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, true, ctx.Err()
		}
		return "", 0, false, err
	}

	if !isHTMLContent(string(raw), resp.Header.Get("Content-Type")) {
		return "", 0, true, pdpmcp.Errorf(pdpmcp.ECONVERSION, "%s returned non-HTML content (%s)", url, resp.Header.Get("Content-Type"))
	}

	return string(raw), 0, true, nil
}

// isHTMLContent determines whether a response body is HTML, checking the
// Content-Type header or, when the header is missing, the body prefix.
func isHTMLContent(body, contentType string) bool {
	contentType = strings.ToLower(contentType)
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return true
	}
	if contentType == "" {
		prefix := strings.ToLower(body)
		if len(prefix) > 200 {
			prefix = prefix[:200]
		}
		return strings.Contains(prefix, "<html") || strings.Contains(prefix, "<!doctype html")
	}
	return false
}
