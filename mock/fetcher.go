// Package mock provides function-field mock implementations of the pdpmcp
// domain interfaces for use in tests.
package mock

import (
	"context"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

var _ pdpmcp.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pdpmcp.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)

	// FetchCalls counts invocations, for zero-network-call assertions.
	FetchCalls int
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.FetchCalls++
	return f.FetchFn(ctx, url)
}
