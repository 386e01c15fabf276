// Package registry implements the Server Registry (spec.md C4): the
// collaborator that holds backend-client handles keyed by server name,
// multiplexes enumeration/invocation to a single named backend, and buffers
// out-of-band notifications, log messages and pending sampling/elicitation
// requests raised by backends. Fan-out across multiple backends (pattern
// matching, per-server error swallowing) is the Capability API's job
// (pkg/gateway/capability); the registry only ever targets one named server
// per call, which is what spec.md §4.4 calls "multiplexes... to a server".
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcpgateway/codemode/pkg/errors"
	"github.com/mcpgateway/codemode/pkg/gateway"
)

// Registry is the concrete Server Registry. It is safe for concurrent use:
// the sandbox may run several executions against the same Session/Registry
// at once (spec.md §5).
type Registry struct {
	mu    sync.RWMutex
	order []string
	conns map[string]gateway.BackendConnection

	notifications notificationBuffer
	pending       pendingStore
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		conns:   make(map[string]gateway.BackendConnection),
		pending: newPendingStore(),
	}
}

// Add registers a new backend connection, or replaces an existing one with
// the same name. The sandbox never calls this; it is here for the gateway's
// own server-lifecycle collaborator (spec.md §1 Out of scope) to drive.
func (r *Registry) Add(conn gateway.BackendConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[conn.Name]; !exists {
		r.order = append(r.order, conn.Name)
	}
	r.conns[conn.Name] = conn
}

// Remove deletes a backend connection and rejects any of its pending
// sampling/elicitation requests, per spec.md §4.4.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	if _, ok := r.conns[name]; ok {
		delete(r.conns, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	r.pending.rejectForServer(name)
}

// Shutdown rejects all pending requests with a registry-shutdown reason.
// It does not clear connections; callers that need to drop all backends
// should call Remove for each name returned by ListServers.
func (r *Registry) Shutdown() {
	r.pending.rejectAll()
}

// ListConnections implements gateway.Session.
func (r *Registry) ListConnections() []gateway.BackendConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gateway.BackendConnection, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.conns[name])
	}
	return out
}

// Connection implements gateway.Session.
func (r *Registry) Connection(name string) (gateway.BackendConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[name]
	return c, ok
}

// ListServers returns a snapshot of every registered server regardless of
// status, in registration order (spec.md §4.1 listServers semantics).
func (r *Registry) ListServers() []gateway.ServerInfo {
	conns := r.ListConnections()
	out := make([]gateway.ServerInfo, 0, len(conns))
	for _, c := range conns {
		out = append(out, gateway.ServerInfo{
			Name:         c.Name,
			Status:       c.Status,
			Capabilities: c.Capabilities,
		})
	}
	return out
}

// HasServer reports whether a server with the given name is registered,
// regardless of status.
func (r *Registry) HasServer(name string) bool {
	_, ok := r.Connection(name)
	return ok
}

func (r *Registry) connected(name string) (gateway.BackendConnection, error) {
	conn, ok := r.Connection(name)
	if !ok {
		return gateway.BackendConnection{}, errors.NewBackendNotFoundError(
			fmt.Sprintf("server %q is not registered", name), nil)
	}
	if conn.Status != gateway.StatusConnected {
		return gateway.BackendConnection{}, errors.NewBackendUnavailableError(
			fmt.Sprintf("server %q is not connected (status: %s)", name, conn.Status), nil)
	}
	return conn, nil
}

// ListTools lists the tools advertised by a single named, connected server.
func (r *Registry) ListTools(ctx context.Context, name string) ([]gateway.ToolInfo, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	return conn.Client.ListTools(ctx)
}

// CallTool dispatches a tool call to a single named, connected server.
func (r *Registry) CallTool(ctx context.Context, name, tool string, args map[string]any) (*gateway.ToolResult, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	res, err := conn.Client.CallTool(ctx, tool, args)
	if err != nil {
		return nil, errors.NewBackendRejectedError(
			fmt.Sprintf("tool %q on server %q failed", tool, name), err)
	}
	return res, nil
}

// ListResources lists the resources advertised by a single named, connected server.
func (r *Registry) ListResources(ctx context.Context, name string) ([]gateway.ResourceInfo, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	return conn.Client.ListResources(ctx)
}

// ListResourceTemplates lists the resource templates advertised by a single named, connected server.
func (r *Registry) ListResourceTemplates(ctx context.Context, name string) ([]gateway.ResourceTemplateInfo, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	return conn.Client.ListResourceTemplates(ctx)
}

// ReadResource dispatches a resource read to a single named, connected server.
func (r *Registry) ReadResource(ctx context.Context, name, uri string) (*gateway.ResourceContent, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	res, err := conn.Client.ReadResource(ctx, uri)
	if err != nil {
		return nil, errors.NewBackendRejectedError(
			fmt.Sprintf("reading resource %q on server %q failed", uri, name), err)
	}
	return res, nil
}

// ListPrompts lists the prompts advertised by a single named, connected server.
func (r *Registry) ListPrompts(ctx context.Context, name string) ([]gateway.PromptInfo, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	return conn.Client.ListPrompts(ctx)
}

// GetPrompt dispatches a prompt fetch to a single named, connected server.
func (r *Registry) GetPrompt(ctx context.Context, name, prompt string, args map[string]string) (*gateway.PromptResult, error) {
	conn, err := r.connected(name)
	if err != nil {
		return nil, err
	}
	res, err := conn.Client.GetPrompt(ctx, prompt, args)
	if err != nil {
		return nil, errors.NewBackendRejectedError(
			fmt.Sprintf("prompt %q on server %q failed", prompt, name), err)
	}
	return res, nil
}

// ConnectedServerNames returns the names of every connected server, in
// registration order. Used by the Capability API to drive fan-out.
func (r *Registry) ConnectedServerNames() []string {
	conns := r.ListConnections()
	out := make([]string, 0, len(conns))
	for _, c := range conns {
		if c.Status == gateway.StatusConnected {
			out = append(out, c.Name)
		}
	}
	return out
}

// PushNotification buffers an out-of-band notification from a backend.
func (r *Registry) PushNotification(n Notification) { r.notifications.pushNotification(n) }

// PushLog buffers a log message forwarded by a backend.
func (r *Registry) PushLog(l LogMessage) { r.notifications.pushLog(l) }

// DrainNotifications returns and clears all buffered notifications.
func (r *Registry) DrainNotifications() []Notification { return r.notifications.drainNotifications() }

// DrainLogs returns and clears all buffered backend log messages.
func (r *Registry) DrainLogs() []LogMessage { return r.notifications.drainLogs() }
