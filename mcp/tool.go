// Package mcp implements the Model Context Protocol server that exposes the
// documentation access operations to AI assistants.
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport: the server reads one
// request per line from stdin and writes one response per line to stdout.
// Three tools are exposed: search_documentation, read_documentation, and
// related.
package mcp

import (
	"context"
	"encoding/json"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Tool is a named capability callable through tools/call. Implementations
// declare a JSON schema for their arguments and return a JSON-serializable
// result.
type Tool interface {
	// Name returns the unique tool identifier (snake_case).
	Name() string

	// Description tells the assistant what the tool does and when to use it.
	Description() string

	// InputSchema returns the JSON schema describing the tool's arguments.
	InputSchema() map[string]any

	// Call executes the tool. Arguments arrive as decoded JSON. Errors are
	// reported to the client as tool-level failures, never as protocol
	// errors.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// SearchTool exposes documentation search.
type SearchTool struct {
	Service *pdpmcp.Service
}

func (t *SearchTool) Name() string { return "search_documentation" }

func (t *SearchTool) Description() string {
	return "Search the JPMC Payment Developer Portal documentation for pages matching a search phrase. " +
		"Each result includes a relevance rank (lower is more relevant), the page URL, its title, and a " +
		"brief excerpt when available. Use this to find relevant documentation when you don't have a specific URL."
}

func (t *SearchTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"search_phrase": map[string]any{
				"type":        "string",
				"description": "Search phrase to use",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results to return",
				"default":     pdpmcp.DefaultSearchLimit,
				"minimum":     pdpmcp.MinSearchLimit,
				"maximum":     pdpmcp.MaxSearchLimit,
			},
		},
		"required": []string{"search_phrase"},
	}
}

func (t *SearchTool) Call(ctx context.Context, args map[string]any) (any, error) {
	phrase, err := stringArg(args, "search_phrase", true)
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	return t.Service.SearchDocumentation(ctx, phrase, limit)
}

// ReadTool exposes page fetching and markdown conversion.
type ReadTool struct {
	Service *pdpmcp.Service
}

func (t *ReadTool) Name() string { return "read_documentation" }

func (t *ReadTool) Description() string {
	return "Fetch a JPMC Payment Developer Portal documentation page and convert it to markdown. " +
		"The URL must be on the developer.payments.jpmorgan.com domain. The output preserves headings, " +
		"code blocks, lists, and tables. Long pages are truncated; make additional calls with the " +
		"start_index from the continuation hint to retrieve the rest of the content."
}

func (t *ReadTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL of the documentation page to read",
			},
			"start_index": map[string]any{
				"type":        "integer",
				"description": "Character offset to start reading from, for paging through long pages",
				"default":     0,
				"minimum":     0,
			},
		},
		"required": []string{"url"},
	}
}

func (t *ReadTool) Call(ctx context.Context, args map[string]any) (any, error) {
	url, err := stringArg(args, "url", true)
	if err != nil {
		return nil, err
	}
	startIndex, err := intArg(args, "start_index")
	if err != nil {
		return nil, err
	}
	return t.Service.ReadDocumentation(ctx, url, startIndex)
}

// RelatedTool exposes related-content discovery.
type RelatedTool struct {
	Service *pdpmcp.Service
}

func (t *RelatedTool) Name() string { return "related" }

func (t *RelatedTool) Description() string {
	return "Get content related to a JPMC Payment Developer Portal documentation page. Use this after " +
		"reading a page to discover additional relevant content that might not appear in search results. " +
		"Each recommendation includes the page URL, its title, and a label describing the relation when available."
}

func (t *RelatedTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL of the documentation page to get related content for",
			},
		},
		"required": []string{"url"},
	}
}

func (t *RelatedTool) Call(ctx context.Context, args map[string]any) (any, error) {
	url, err := stringArg(args, "url", true)
	if err != nil {
		return nil, err
	}
	return t.Service.RelatedDocumentation(ctx, url)
}

// stringArg extracts a string argument from decoded JSON arguments.
func stringArg(args map[string]any, name string, required bool) (string, error) {
	raw, ok := args[name]
	if !ok {
		if required {
			return "", pdpmcp.Errorf(pdpmcp.EINVALID, "missing required argument %q", name)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", pdpmcp.Errorf(pdpmcp.EINVALID, "argument %q must be a string", name)
	}
	return s, nil
}

// intArg extracts an optional integer argument. JSON numbers decode as
// float64; non-integral values are rejected rather than truncated. A missing
// argument yields 0, which the facade treats as "use the default".
func intArg(args map[string]any, name string) (int, error) {
	raw, ok := args[name]
	if !ok {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, pdpmcp.Errorf(pdpmcp.EINVALID, "argument %q must be an integer", name)
	}
	return int(f), nil
}

// resultText serializes a tool result for the text content block of a
// tools/call response. Strings pass through as-is; everything else is
// rendered as indented JSON.
func resultText(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", pdpmcp.Errorf(pdpmcp.EINTERNAL, "failed to encode tool result: %v", err)
	}
	return string(encoded), nil
}
