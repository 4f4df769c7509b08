// Package slog provides logging decorators for the pdpmcp domain
// interfaces. Each decorator wraps an implementation and records operation,
// duration, and outcome without changing behavior. Logs go to the logger's
// own writer (stderr in practice) so stdout stays clean for the MCP
// transport.
package slog

import (
	"context"
	"log/slog"
	"time"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Ensure Fetcher implements pdpmcp.Fetcher at compile time.
var _ pdpmcp.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a pdpmcp.Fetcher with debug logging.
type Fetcher struct {
	next   pdpmcp.Fetcher
	logger *slog.Logger
}

// NewFetcher creates a logging decorator around next.
func NewFetcher(next pdpmcp.Fetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher, logging the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("page fetch failed",
			"url", url,
			"code", pdpmcp.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return "", err
	}
	f.logger.Debug("page fetched",
		"url", url,
		"bytes", len(html),
		"duration", time.Since(begin),
	)
	return html, nil
}
