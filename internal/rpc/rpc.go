// Package rpc serves the analytics tools over JSON-RPC 2.0 using the
// MCP method names: initialize, tools/list, tools/call and ping.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/tools"
)

const (
	Version         = "2.0"
	ProtocolVersion = "2024-11-05"
	ServerName      = "solar-analyst"
)

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// notification reports whether the request carries no id and so expects
// no response.
func (r Request) notification() bool { return len(r.ID) == 0 }

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Caller runs tools; *tools.Registry satisfies it.
type Caller interface {
	Call(ctx context.Context, name string, args json.RawMessage) (report.Report, error)
	Definitions() []tools.Definition
}

var _ Caller = (*tools.Registry)(nil)

type Server struct {
	tools     Caller
	version   string
	sessionID string
	log       zerolog.Logger
}

func NewServer(caller Caller, version string, log zerolog.Logger) *Server {
	return &Server{tools: caller, version: version, sessionID: uuid.NewString(), log: log}
}

// SessionID identifies this server instance to clients.
func (s *Server) SessionID() string { return s.sessionID }

// Handle processes a single request or a batch. It returns nil when nothing
// should be sent back, which is the case for notifications.
func (s *Server) Handle(ctx context.Context, body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		return s.handleBatch(ctx, body)
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return encode(errorResponse(nil, CodeParseError, "Parse error", err.Error()))
	}
	resp := s.dispatch(ctx, req)
	if resp == nil {
		return nil
	}
	return encode(resp)
}

func (s *Server) handleBatch(ctx context.Context, body []byte) []byte {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return encode(errorResponse(nil, CodeParseError, "Parse error", err.Error()))
	}
	if len(raws) == 0 {
		return encode(errorResponse(nil, CodeInvalidRequest, "Invalid Request", "empty batch"))
	}
	var out []*Response
	for _, raw := range raws {
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			out = append(out, errorResponse(nil, CodeInvalidRequest, "Invalid Request", err.Error()))
			continue
		}
		if resp := s.dispatch(ctx, req); resp != nil {
			out = append(out, resp)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return encode(out)
}

func (s *Server) dispatch(ctx context.Context, req Request) *Response {
	if req.JSONRPC != Version || req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request", nil)
	}
	result, rerr := s.invoke(ctx, req)
	if req.notification() {
		if rerr != nil {
			s.log.Debug().Str("method", req.Method).Str("error", rerr.Message).Msg("notification failed")
		}
		return nil
	}
	if rerr != nil {
		return &Response{JSONRPC: Version, ID: req.ID, Error: rerr}
	}
	return &Response{JSONRPC: Version, ID: req.ID, Result: result}
}

func (s *Server) invoke(ctx context.Context, req Request) (any, *Error) {
	switch req.Method {
	case "initialize":
		return s.initialize(), nil
	case "ping", "notifications/initialized", "notifications/cancelled":
		return struct{}{}, nil
	case "tools/list":
		return s.listTools(), nil
	case "tools/call":
		return s.callTool(ctx, req.Params)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "Method not found", Data: req.Method}
	}
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

func (s *Server) initialize() initializeResult {
	return initializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      serverInfo{Name: ServerName, Version: s.version},
		Capabilities:    map[string]any{"tools": map[string]any{"listChanged": false}},
	}
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func (s *Server) listTools() map[string][]toolInfo {
	defs := s.tools.Definitions()
	out := make([]toolInfo, len(defs))
	for i, d := range defs {
		out[i] = toolInfo{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema()}
	}
	return map[string][]toolInfo{"tools": out}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content           []content     `json:"content"`
	StructuredContent report.Report `json:"structuredContent"`
	IsError           bool          `json:"isError"`
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *Error) {
	var p callParams
	if err := json.Unmarshal(raw, &p); err != nil || p.Name == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "Invalid params", Data: "tools/call requires a tool name"}
	}

	rep, err := s.tools.Call(ctx, p.Name, p.Arguments)
	var pe *tools.ParamError
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return nil, &Error{Code: CodeInvalidParams, Message: "Unknown tool: " + p.Name}
	case errors.As(err, &pe):
		return nil, &Error{Code: CodeInvalidParams, Message: "Invalid params", Data: pe.Err.Error()}
	case err != nil:
		s.log.Error().Err(err).Str("tool", p.Name).Msg("tools/call failed")
		return nil, &Error{Code: CodeInternalError, Message: "Internal error", Data: err.Error()}
	}

	text, err := json.Marshal(rep)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: "Internal error", Data: err.Error()}
	}
	return callResult{
		Content:           []content{{Type: "text", Text: string(text)}},
		StructuredContent: rep,
		IsError:           rep.ReportType() == report.TypeError,
	}, nil
}

func errorResponse(id json.RawMessage, code int, msg string, data any) *Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: msg, Data: data}}
}

func encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Internal error"}}`)
	}
	return b
}
