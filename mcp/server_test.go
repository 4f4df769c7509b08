package mcp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
	"github.com/jpmorgan-payments/pdp-mcp/mcp"
	"github.com/jpmorgan-payments/pdp-mcp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(service *pdpmcp.Service) *mcp.Server {
	return mcp.NewServer("pdp-doc-mcp-server", "test", []mcp.Tool{
		&mcp.SearchTool{Service: service},
		&mcp.ReadTool{Service: service},
		&mcp.RelatedTool{Service: service},
	}, discardLogger())
}

// roundTrip feeds newline-delimited requests to the server and returns the
// decoded responses in order.
func roundTrip(t *testing.T, server *mcp.Server, requests ...string) []map[string]any {
	t.Helper()

	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer

	require.NoError(t, server.Run(context.Background(), in, &out))

	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	server := newTestServer(&pdpmcp.Service{})

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
	)
	require.Len(t, responses, 1)

	result := responses[0]["result"].(map[string]any)
	assert.Equal(t, mcp.ProtocolVersion, result["protocolVersion"])

	info := result["serverInfo"].(map[string]any)
	assert.Equal(t, "pdp-doc-mcp-server", info["name"])
}

func TestServer_ToolsList(t *testing.T) {
	t.Parallel()

	server := newTestServer(&pdpmcp.Service{})

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
	)
	require.Len(t, responses, 1)

	result := responses[0]["result"].(map[string]any)
	tools := result["tools"].([]any)
	require.Len(t, tools, 3)

	var names []string
	for _, raw := range tools {
		tool := raw.(map[string]any)
		names = append(names, tool["name"].(string))
		assert.NotEmpty(t, tool["description"])
		schema := tool["inputSchema"].(map[string]any)
		assert.Equal(t, "object", schema["type"])
	}
	assert.Equal(t, []string{"search_documentation", "read_documentation", "related"}, names)
}

func TestServer_ToolsCall(t *testing.T) {
	t.Parallel()

	t.Run("search returns serialized results", func(t *testing.T) {
		t.Parallel()

		service := &pdpmcp.Service{
			Search: &mock.SearchService{
				SearchFn: func(ctx context.Context, phrase string, limit int) ([]pdpmcp.SearchResult, error) {
					assert.Equal(t, "checkout", phrase)
					assert.Equal(t, 5, limit)
					return []pdpmcp.SearchResult{
						{RankOrder: 1, URL: "https://developer.payments.jpmorgan.com/docs/a", Title: "A"},
					}, nil
				},
			},
		}
		server := newTestServer(service)

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"search_documentation","arguments":{"search_phrase":"checkout","limit":5}}}`,
		)
		require.Len(t, responses, 1)

		result := responses[0]["result"].(map[string]any)
		assert.Nil(t, result["isError"])

		content := result["content"].([]any)
		require.Len(t, content, 1)
		text := content[0].(map[string]any)["text"].(string)
		assert.Contains(t, text, `"rank_order": 1`)
		assert.Contains(t, text, "https://developer.payments.jpmorgan.com/docs/a")
	})

	t.Run("read returns markdown as plain text", func(t *testing.T) {
		t.Parallel()

		service := &pdpmcp.Service{
			Guard: pdpmcp.NewGuard("https://developer.payments.jpmorgan.com"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<html><main><h1>Checkout</h1></main></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*pdpmcp.ExtractResult, error) {
					return &pdpmcp.ExtractResult{ContentHTML: "<h1>Checkout</h1>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html, pageURL string) (string, error) {
					return "# Checkout", nil
				},
			},
		}
		server := newTestServer(service)

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"read_documentation","arguments":{"url":"https://developer.payments.jpmorgan.com/docs/checkout"}}}`,
		)
		require.Len(t, responses, 1)

		result := responses[0]["result"].(map[string]any)
		content := result["content"].([]any)
		text := content[0].(map[string]any)["text"].(string)
		assert.Equal(t, "# Checkout", text)
	})

	t.Run("read honors start_index for paging", func(t *testing.T) {
		t.Parallel()

		service := &pdpmcp.Service{
			Guard: pdpmcp.NewGuard("https://developer.payments.jpmorgan.com"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "<html><main>page</main></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*pdpmcp.ExtractResult, error) {
					return &pdpmcp.ExtractResult{ContentHTML: "<p>page</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html, pageURL string) (string, error) {
					return "# Checkout", nil
				},
			},
		}
		server := newTestServer(service)

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"read_documentation","arguments":{"url":"https://developer.payments.jpmorgan.com/docs/checkout","start_index":2}}}`,
		)
		require.Len(t, responses, 1)

		result := responses[0]["result"].(map[string]any)
		content := result["content"].([]any)
		text := content[0].(map[string]any)["text"].(string)
		assert.Equal(t, "Checkout", text)
	})

	t.Run("tool failure is an in-band error result", func(t *testing.T) {
		t.Parallel()

		service := &pdpmcp.Service{
			Guard: pdpmcp.NewGuard("https://developer.payments.jpmorgan.com"),
		}
		server := newTestServer(service)

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"read_documentation","arguments":{"url":"https://example.com/x"}}}`,
		)
		require.Len(t, responses, 1)

		result := responses[0]["result"].(map[string]any)
		assert.Equal(t, true, result["isError"])
		assert.Nil(t, responses[0]["error"])

		content := result["content"].([]any)
		text := content[0].(map[string]any)["text"].(string)
		assert.Contains(t, text, "portal domain")
	})

	t.Run("missing required argument is an in-band error", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(&pdpmcp.Service{})

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"read_documentation","arguments":{}}}`,
		)
		require.Len(t, responses, 1)

		result := responses[0]["result"].(map[string]any)
		assert.Equal(t, true, result["isError"])
	})

	t.Run("unknown tool is invalid params", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(&pdpmcp.Service{})

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`,
		)
		require.Len(t, responses, 1)

		rpcErr := responses[0]["error"].(map[string]any)
		assert.Equal(t, float64(-32602), rpcErr["code"])
	})
}

func TestServer_Protocol(t *testing.T) {
	t.Parallel()

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(&pdpmcp.Service{})

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		)
		require.Len(t, responses, 1)

		rpcErr := responses[0]["error"].(map[string]any)
		assert.Equal(t, float64(-32601), rpcErr["code"])
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(&pdpmcp.Service{})

		responses := roundTrip(t, server, `{not json`)
		require.Len(t, responses, 1)

		rpcErr := responses[0]["error"].(map[string]any)
		assert.Equal(t, float64(-32700), rpcErr["code"])
	})

	t.Run("notifications receive no response", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(&pdpmcp.Service{})

		responses := roundTrip(t, server,
			`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			`{"jsonrpc":"2.0","id":9,"method":"ping"}`,
		)
		require.Len(t, responses, 1)
		assert.Equal(t, float64(9), responses[0]["id"])
	})
}
