package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	pdphttp "github.com/jpmorgan-payments/pdp-mcp/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noSleep skips backoff delays so retry tests run instantly.
func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher()
		require.NoError(t, err)

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends user agent and session headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotSession string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotSession = r.Header.Get(pdphttp.SessionHeader)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithUserAgent("test-agent/1.0"),
			pdphttp.WithSessionID("session-123"),
		)
		require.NoError(t, err)

		_, err = fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", gotUA)
		assert.Equal(t, "session-123", gotSession)
	})

	t.Run("retries 503 twice then succeeds with three attempts", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithMaxRetries(2),
			pdphttp.WithSleep(noSleep),
		)
		require.NoError(t, err)

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("404 fails immediately with exactly one attempt", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithMaxRetries(2),
			pdphttp.WithSleep(noSleep),
		)
		require.NoError(t, err)

		_, err = fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, pdpmcp.ENOTFOUND, pdpmcp.ErrorCode(err))
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("429 honors Retry-After hint", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		var slept []time.Duration
		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithMaxRetries(2),
			pdphttp.WithSleep(func(ctx context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}),
		)
		require.NoError(t, err)

		_, err = fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		require.Len(t, slept, 1)
		assert.Equal(t, 7*time.Second, slept[0])
	})

	t.Run("exhausted retries fail with unavailable", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithMaxRetries(2),
			pdphttp.WithSleep(noSleep),
		)
		require.NoError(t, err)

		_, err = fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, pdpmcp.EUNAVAILABLE, pdpmcp.ErrorCode(err))
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("non-HTML content type is a conversion error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher()
		require.NoError(t, err)

		_, err = fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, pdpmcp.ECONVERSION, pdpmcp.ErrorCode(err))
	})

	t.Run("missing content type falls back to body sniffing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil // suppress automatic detection
			_, _ = w.Write([]byte("<!DOCTYPE html><html><body>hi</body></html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher()
		require.NoError(t, err)

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "hi")
	})

	t.Run("respects context cancellation without burning retries", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(pdphttp.WithSleep(noSleep))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("per-attempt timeout retries a stalled server", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				time.Sleep(300 * time.Millisecond)
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		fetcher, err := pdphttp.NewFetcher(
			pdphttp.WithTimeout(50*time.Millisecond),
			pdphttp.WithMaxRetries(1),
			pdphttp.WithSleep(noSleep),
		)
		require.NoError(t, err)

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("rejects invalid proxy URL", func(t *testing.T) {
		t.Parallel()

		_, err := pdphttp.NewFetcher(pdphttp.WithProxy("://bad"))
		assert.Equal(t, pdpmcp.EINVALID, pdpmcp.ErrorCode(err))
	})
}
