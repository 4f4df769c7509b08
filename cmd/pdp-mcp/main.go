// Command pdp-mcp runs the JPMC Payment Developer Portal documentation MCP
// server. Without arguments it serves the MCP protocol on stdio; the search,
// read, and related subcommands invoke the same operations directly for
// debugging and scripting.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"github.com/jpmorgan-payments/pdp-mcp/goquery"
	pdphttp "github.com/jpmorgan-payments/pdp-mcp/http"
	"github.com/jpmorgan-payments/pdp-mcp/htmltomarkdown"
	"github.com/jpmorgan-payments/pdp-mcp/mcp"
	pdpslog "github.com/jpmorgan-payments/pdp-mcp/slog"
	"github.com/jpmorgan-payments/pdp-mcp/trafilatura"
)

const serverName = "pdp-doc-mcp-server"

var version = "dev"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is built from the environment before Run wires services.
	Config pdpmcp.Config

	// Service is exposed for end-to-end testing.
	Service *pdpmcp.Service
}

// NewMain returns a new instance of Main with configuration read from the
// environment. The environment is consulted exactly once; components receive
// immutable values from Config.
func NewMain() *Main {
	return &Main{Config: configFromEnv()}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := newLogger(stderr)

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pdp-mcp"),
		kong.Description("JPMC Payment Developer Portal documentation MCP server"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong.
	if len(args) > 0 {
		if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	service, err := buildService(m.Config, logger)
	if err != nil {
		return err
	}
	m.Service = service
	deps.Service = service

	deps.Server = mcp.NewServer(serverName, version, []mcp.Tool{
		&mcp.SearchTool{Service: service},
		&mcp.ReadTool{Service: service},
		&mcp.RelatedTool{Service: service},
	}, logger)

	return kongCtx.Run(deps)
}

// buildService wires the documentation access facade from configuration.
func buildService(cfg pdpmcp.Config, logger *slog.Logger) (*pdpmcp.Service, error) {
	guard := pdpmcp.NewGuard(cfg.BaseURL)

	fetcher, err := pdphttp.NewFetcher(
		pdphttp.WithTimeout(cfg.Timeout),
		pdphttp.WithMaxRetries(cfg.MaxRetries),
		pdphttp.WithProxy(cfg.ProxyURL),
		pdphttp.WithUserAgent(cfg.UserAgent),
		pdphttp.WithSessionID(cfg.SessionID),
		pdphttp.WithRateLimit(2.0),
	)
	if err != nil {
		return nil, err
	}

	search, err := pdphttp.NewSearchClient(cfg.SearchAPIURL, cfg.BaseURL, guard,
		pdphttp.WithSearchTimeout(cfg.Timeout),
		pdphttp.WithSearchMaxRetries(cfg.MaxRetries),
		pdphttp.WithSearchProxy(cfg.ProxyURL),
		pdphttp.WithSearchUserAgent(cfg.UserAgent),
		pdphttp.WithSearchSessionID(cfg.SessionID),
	)
	if err != nil {
		return nil, err
	}

	related, err := pdphttp.NewRelatedClient(cfg.RelatedAPIURL, guard,
		pdphttp.WithRelatedTimeout(cfg.Timeout),
		pdphttp.WithRelatedMaxRetries(cfg.MaxRetries),
		pdphttp.WithRelatedProxy(cfg.ProxyURL),
		pdphttp.WithRelatedUserAgent(cfg.UserAgent),
		pdphttp.WithRelatedSessionID(cfg.SessionID),
	)
	if err != nil {
		return nil, err
	}

	return &pdpmcp.Service{
		Guard:     guard,
		Fetcher:   pdpslog.NewFetcher(fetcher, logger),
		Extractor: goquery.NewExtractor(),
		Fallback:  trafilatura.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Search:    pdpslog.NewSearchService(search, logger),
		Related:   pdpslog.NewRecommendationService(related, logger),
	}, nil
}

// configFromEnv builds the process configuration. Unset variables fall back
// to portal defaults.
func configFromEnv() pdpmcp.Config {
	cfg := pdpmcp.DefaultConfig()
	cfg.SessionID = uuid.NewString()

	if v := os.Getenv("PDP_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PDP_SEARCH_API_URL"); v != "" {
		cfg.SearchAPIURL = v
	}
	if v := os.Getenv("PDP_RELATED_API_URL"); v != "" {
		cfg.RelatedAPIURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.ProxyURL = v
	} else if v := os.Getenv("HTTP_PROXY"); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv("PDP_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PDP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	return cfg
}

// newLogger builds the process logger. Level comes from PDP_MCP_LOG_LEVEL
// (debug, info, warn, error), defaulting to warn so the stdio transport is
// not flooded with diagnostics.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch os.Getenv("PDP_MCP_LOG_LEVEL") {
	case "debug", "DEBUG":
		level = slog.LevelDebug
	case "info", "INFO":
		level = slog.LevelInfo
	case "error", "ERROR":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
