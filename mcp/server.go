package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// ProtocolVersion is the MCP protocol revision this server implements.
const ProtocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// maxLineSize bounds a single JSON-RPC message (4 MiB).
const maxLineSize = 4 << 20

// Server speaks JSON-RPC 2.0 over a line-delimited stream, dispatching
// tools/call requests to registered tools. It holds no per-request state;
// each request is handled independently.
type Server struct {
	name    string
	version string
	tools   []Tool
	byName  map[string]Tool
	logger  *slog.Logger

	mu  sync.Mutex // serializes writes to out
	out io.Writer
}

// NewServer creates a Server exposing the given tools, in order.
func NewServer(name, version string, tools []Tool, logger *slog.Logger) *Server {
	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name()] = tool
	}
	return &Server{
		name:    name,
		version: version,
		tools:   tools,
		byName:  byName,
		logger:  logger,
	}
}

// request is an incoming JSON-RPC message. Notifications carry no ID and
// receive no response.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// callParams are the parameters of a tools/call request.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// textContent is a single text block in a tools/call result.
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the result payload of a tools/call response. Tool failures
// are reported in-band with IsError so the assistant can observe and recover
// from them; they never abort the protocol.
type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// toolInfo describes one tool in a tools/list response.
type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Run reads requests from in until EOF or context cancellation, writing
// responses to out. It is the blocking main loop of `pdp-mcp serve`.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeError(nil, codeParseError, fmt.Sprintf("parse error: %v", err))
			continue
		}

		s.dispatch(ctx, &req)
	}

	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req *request) {
	// Notifications receive no response.
	if req.ID == nil {
		s.logger.Debug("notification received", "method", req.Method)
		return
	}

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    s.name,
				"version": s.version,
			},
		})
	case "ping":
		s.writeResult(req.ID, map[string]any{})
	case "tools/list":
		infos := make([]toolInfo, 0, len(s.tools))
		for _, tool := range s.tools {
			infos = append(infos, toolInfo{
				Name:        tool.Name(),
				Description: tool.Description(),
				InputSchema: tool.InputSchema(),
			})
		}
		s.writeResult(req.ID, map[string]any{"tools": infos})
	case "tools/call":
		s.handleCall(ctx, req)
	default:
		s.writeError(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (s *Server) handleCall(ctx context.Context, req *request) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
		return
	}

	tool, ok := s.byName[params.Name]
	if !ok {
		s.writeError(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
		return
	}

	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	result, err := tool.Call(ctx, args)
	if err != nil {
		s.logger.Warn("tool call failed",
			"tool", params.Name,
			"code", pdpmcp.ErrorCode(err),
		)
		s.writeResult(req.ID, callResult{
			Content: []textContent{{Type: "text", Text: pdpmcp.ErrorMessage(err)}},
			IsError: true,
		})
		return
	}

	text, err := resultText(result)
	if err != nil {
		s.writeResult(req.ID, callResult{
			Content: []textContent{{Type: "text", Text: pdpmcp.ErrorMessage(err)}},
			IsError: true,
		})
		return
	}

	s.writeResult(req.ID, callResult{
		Content: []textContent{{Type: "text", Text: text}},
	})
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	s.write(response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.write(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) write(resp response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		return
	}
	if _, err := s.out.Write(append(encoded, '\n')); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
