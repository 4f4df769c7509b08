// Package http provides HTTP-based implementations of the pdpmcp domain
// interfaces: the page Fetcher and the Search and Related-Content API
// clients. All three share the same bounded-retry behavior for transient
// failures and honor an optional outbound proxy.
package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Defaults shared by the fetcher and the API clients.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	baseBackoff       = 500 * time.Millisecond
	maxBackoff        = 8 * time.Second
)

// SessionHeader carries the per-process session ID so the portal can
// correlate requests belonging to one assistant session.
const SessionHeader = "X-MCP-Session-Id"

// sleepFunc waits for the given duration or until the context is done.
// Tests inject a fake to exercise retry behavior without real delays.
type sleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// newClient builds an http.Client routing through proxyURL when non-empty.
// Timeouts are enforced per attempt via request contexts, not on the client.
func newClient(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return &http.Client{}, nil
	}
	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(proxy)},
	}, nil
}

// retryableStatus reports whether a response status indicates a transient
// condition worth retrying. 4xx responses other than 429 are terminal.
func retryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

// backoffDelay returns the exponential backoff delay for a retry attempt
// (0-based), honoring the Retry-After hint from a rate-limited response when
// one was parseable.
func backoffDelay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	// Large attempt counts would overflow the shift; the cap applies anyway.
	if attempt > 10 {
		return maxBackoff
	}
	d := baseBackoff << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// parseRetryAfter extracts a delay from a Retry-After header. Only the
// delta-seconds form is honored; anything else falls back to backoff.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// waitLimiter applies the rate limiter when one is configured.
func waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
