package main

import (
	"context"
	"io"
	"log/slog"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"github.com/jpmorgan-payments/pdp-mcp/mcp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Service *pdpmcp.Service
	Server  *mcp.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the MCP server on stdio"`
	Search  SearchCmd  `cmd:"" help:"Search the portal documentation"`
	Read    ReadCmd    `cmd:"" help:"Fetch a documentation page as markdown"`
	Related RelatedCmd `cmd:"" help:"List content related to a documentation page"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Phrase string `arg:"" help:"Search phrase"`
	Limit  int    `short:"l" default:"10" help:"Maximum number of results (1-50)"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URL        string `arg:"" help:"Documentation page URL"`
	StartIndex int    `short:"s" default:"0" help:"Character offset to start reading from"`
}

// RelatedCmd is the "related" subcommand.
type RelatedCmd struct {
	URL string `arg:"" help:"Documentation page URL"`
}
