// Package gateway defines the shared data model for the codemode execution
// core: the process-wide Session, backend connection bookkeeping, and the
// capability records (tools, resources, prompts) that flow between the
// Server Registry, the Capability API, and the Search Engine.
package gateway

import "context"

// ConnectionStatus is the lifecycle state of a BackendConnection.
type ConnectionStatus string

// ConnectionStatus values, per spec.md §3.
const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusReconnecting ConnectionStatus = "reconnecting"
	StatusError        ConnectionStatus = "error"
)

// BackendCapabilities summarizes which capability kinds a backend advertises.
type BackendCapabilities struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
	Prompts   bool `json:"prompts"`
}

// BackendClient is the minimal surface the registry needs from a connected
// backend MCP server. The concrete HTTP/stdio transport implementation is an
// external collaborator (spec.md §1 Out of scope).
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_backend_client.go -package=mocks -source=types.go BackendClient
type BackendClient interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	CallTool(ctx context.Context, tool string, args map[string]any) (*ToolResult, error)
	ListResources(ctx context.Context) ([]ResourceInfo, error)
	ListResourceTemplates(ctx context.Context) ([]ResourceTemplateInfo, error)
	ReadResource(ctx context.Context, uri string) (*ResourceContent, error)
	ListPrompts(ctx context.Context) ([]PromptInfo, error)
	GetPrompt(ctx context.Context, name string, args map[string]string) (*PromptResult, error)
}

// BackendConnection is a named handle to a connected (or previously
// connected) backend MCP server, per spec.md §3.
type BackendConnection struct {
	Name         string
	Status       ConnectionStatus
	Capabilities BackendCapabilities
	Client       BackendClient
}

// ServerInfo is the capability record returned by listServers (§3).
type ServerInfo struct {
	Name         string              `json:"name"`
	Status       ConnectionStatus    `json:"status"`
	Capabilities BackendCapabilities `json:"capabilities"`
}

// ToolInfo describes a tool advertised by a backend, tagged with its origin.
type ToolInfo struct {
	Server      string         `json:"server"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ResourceInfo describes a resource advertised by a backend.
type ResourceInfo struct {
	Server      string `json:"server"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplateInfo describes a resource template advertised by a backend.
type ResourceTemplateInfo struct {
	Server      string `json:"server"`
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PromptArgument describes one argument a prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptInfo describes a prompt advertised by a backend.
type PromptInfo struct {
	Server      string           `json:"server"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// ToolContent is one element of a ToolResult's content array.
type ToolContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ToolResult is the outcome of a callTool dispatch.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ResourceContentItem is one element of a ResourceContent's contents array.
type ResourceContentItem struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ResourceContent is the outcome of a readResource dispatch.
type ResourceContent struct {
	Contents []ResourceContentItem `json:"contents"`
}

// PromptMessageContent is the content of one message in a PromptResult.
type PromptMessageContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// PromptMessage is one message in a PromptResult.
type PromptMessage struct {
	Role    string               `json:"role"`
	Content PromptMessageContent `json:"content"`
}

// PromptResult is the outcome of a getPrompt dispatch.
type PromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}
