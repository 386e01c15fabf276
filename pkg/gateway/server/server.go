// Package server exposes the codemode execution core as two MCP tools,
// "execute" and "search", wired against mark3labs/mcp-go the way the
// teacher's cmd/thv/app/mcp_serve.go wires its own tool handlers:
// mcp.Tool{InputSchema: ...} registered with mcpServer.AddTool, arguments
// bound with request.BindArguments, and results returned through
// mcp.NewToolResultStructuredOnly/NewToolResultError rather than a thrown
// error.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpgateway/codemode/pkg/audit"
	"github.com/mcpgateway/codemode/pkg/gateway/capability"
	"github.com/mcpgateway/codemode/pkg/gateway/sandbox"
	"github.com/mcpgateway/codemode/pkg/gateway/search"
	"github.com/mcpgateway/codemode/pkg/gateway/validate"
	"github.com/mcpgateway/codemode/pkg/logger"
	"github.com/mcpgateway/codemode/pkg/telemetry"
)

// ExecutionLimits is the slice of the loaded configuration the server needs
// to size each sandbox run, per spec.md §6/§8.
type ExecutionLimits struct {
	DefaultTimeoutMs   int
	DefaultMaxMCPCalls int
}

// Server owns the mark3labs/mcp-go server instance and the collaborators
// (C1-C5) its two tool handlers dispatch through.
type Server struct {
	mcpServer *server.MCPServer
	sandbox   *sandbox.Sandbox
	search    *search.Engine
	auditor   *audit.Auditor
	telemetry *telemetry.Provider
	limits    ExecutionLimits
}

// Registry is the union of collaborator interfaces the server needs from
// the Server Registry (C4): dispatch for the sandbox's Capability API, and
// enumeration for the Search Engine.
type Registry interface {
	capability.ServerRegistry
	search.Registry
}

// New builds a Server. name/version identify the MCP server to clients,
// mirroring server.NewMCPServer's own signature in the teacher.
func New(name, version string, registry Registry, limits ExecutionLimits, auditor *audit.Auditor, telemetryProvider *telemetry.Provider) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(false),
			server.WithLogging(),
		),
		sandbox:   sandbox.New(registry),
		search:    search.New(registry),
		auditor:   auditor,
		telemetry: telemetryProvider,
		limits:    limits,
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying mark3labs/mcp-go server so a transport
// (Streamable HTTP, stdio) can be layered on top of it, the way
// cmd/thv/app/mcp_serve.go layers server.NewStreamableHTTPServer over its
// own mcpServer.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "execute",
		Description: "Execute JavaScript code in a sandbox with access to a single curated mcp capability object proxying the connected backend servers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "JavaScript source to run. Must return (or resolve to) a JSON-serializable value.",
				},
				"timeoutMs": map[string]interface{}{
					"type":        "integer",
					"description": "Execution deadline in milliseconds. Defaults to the configured default timeout.",
				},
			},
			Required: []string{"code"},
		},
	}, s.handleExecute)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "search",
		Description: "Search the capabilities (tools, resources, prompts, servers) of the connected backend servers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive regular expression matched against names, descriptions and URIs.",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to one kind: servers, tools, resources, or prompts. Omit for all kinds.",
				},
				"server": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to servers whose name matches this pattern. Omit to search every connected server.",
				},
				"includeSchemas": map[string]interface{}{
					"type":        "boolean",
					"description": "Include each tool's full input schema in the results.",
				},
			},
		},
	}, s.handleSearch)
}

type executeArgs struct {
	Code      string `json:"code"`
	TimeoutMs *int   `json:"timeoutMs,omitempty"`
}

// handleExecute binds arguments, validates the request, runs the sandbox,
// and returns the resulting ExecutionResult envelope as the tool's
// structured content. It never returns a tool-level error for a run that
// fails inside the sandbox: that failure is the envelope itself, per
// spec.md §3/§7.
func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	var args executeArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse arguments: %v", err)), nil
	}

	req := validate.ExecuteRequest{Code: args.Code, Timeout: args.TimeoutMs}
	if msg := validate.ValidateExecuteRequest(req); msg != "" {
		result := validate.Fail(validate.ErrNameValidation, msg, nil, validate.ExecutionStats{})
		s.recordExecute(ctx, result, start)
		return mcp.NewToolResultStructuredOnly(result), nil
	}

	timeoutMs := s.limits.DefaultTimeoutMs
	if args.TimeoutMs != nil {
		timeoutMs = *args.TimeoutMs
	}
	cfg := sandbox.Config{TimeoutMs: timeoutMs, MaxMCPCalls: s.limits.DefaultMaxMCPCalls}

	result := s.sandbox.Run(ctx, args.Code, cfg, nil)
	s.recordExecute(ctx, result, start)
	return mcp.NewToolResultStructuredOnly(result), nil
}

func (s *Server) recordExecute(ctx context.Context, result validate.ExecutionResult, start time.Time) {
	outcome := audit.OutcomeSuccess
	switch {
	case validate.IsSuccess(result):
		outcome = audit.OutcomeSuccess
	case validate.IsTimeout(result), validate.IsCallLimitExceeded(result):
		outcome = audit.OutcomeDenied
	default:
		outcome = audit.OutcomeFailure
	}
	event := audit.NewEvent(audit.EventTypeExecute, outcome, "", time.Now()).
		WithMetadata(map[string]any{
			"durationMs": time.Since(start).Milliseconds(),
			"mcpCalls":   result.Stats.MCPCalls,
		})
	s.auditor.Record(event)
	s.telemetry.RecordExecution(ctx, result)
	if !validate.IsSuccess(result) && validate.IsOtherFailure(result) {
		logger.Warnf("execute failed: %s", result.Error.Message)
	}
}

type searchArgs struct {
	Query          string `json:"query,omitempty"`
	Type           string `json:"type,omitempty"`
	Server         string `json:"server,omitempty"`
	IncludeSchemas bool   `json:"includeSchemas,omitempty"`
}

// handleSearch binds arguments and returns the Search Engine's result map
// as structured content.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse arguments: %v", err)), nil
	}

	result := s.search.Search(ctx, search.Request{
		Query:          args.Query,
		Type:           args.Type,
		Server:         args.Server,
		IncludeSchemas: args.IncludeSchemas,
	})

	s.auditor.Record(audit.NewEvent(audit.EventTypeSearch, audit.OutcomeSuccess, "", time.Now()).
		WithTarget(map[string]any{"query": args.Query, "type": args.Type}))
	s.telemetry.RecordSearch(ctx)

	return mcp.NewToolResultStructuredOnly(result), nil
}
