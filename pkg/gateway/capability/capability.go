// Package capability implements the Capability API (spec.md C1): the
// single curated object bound under the name `mcp` inside the sandbox. It
// proxies every method to the Server Registry (interface only — see
// ServerRegistry below) through a Session, applying the fan-out/pattern
// matching and call-accounting rules spec.md §4.1 defines.
package capability

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mcpgateway/codemode/pkg/gateway"
)

// Accounting is the slice of the sandbox's per-run ExecutionContext that the
// Capability API needs: billable-call accounting and log capture. The
// sandbox's ExecutionContext implements this; capability never constructs
// one itself, keeping this package free of a dependency on pkg/gateway/sandbox.
type Accounting interface {
	// Billable pre-increments the run's call counter and reports an error
	// if doing so exceeds the configured ceiling. It must be called before
	// any billable method does its actual work (spec.md §4.1, §9).
	Billable() error
	// Log appends a line to the run's log buffer in execution order.
	Log(line string)
}

// ServerRegistry is the subset of the Server Registry (C4) the Capability
// API dispatches through. It is declared here, not imported from a concrete
// registry package, because spec.md specifies C4 as an interface-only
// collaborator (§4.4).
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_registry.go -package=mocks -source=capability.go ServerRegistry
type ServerRegistry interface {
	ListServers() []gateway.ServerInfo
	ConnectedServerNames() []string
	ListTools(ctx context.Context, server string) ([]gateway.ToolInfo, error)
	CallTool(ctx context.Context, server, tool string, args map[string]any) (*gateway.ToolResult, error)
	ListResources(ctx context.Context, server string) ([]gateway.ResourceInfo, error)
	ListResourceTemplates(ctx context.Context, server string) ([]gateway.ResourceTemplateInfo, error)
	ReadResource(ctx context.Context, server, uri string) (*gateway.ResourceContent, error)
	ListPrompts(ctx context.Context, server string) ([]gateway.PromptInfo, error)
	GetPrompt(ctx context.Context, server, prompt string, args map[string]string) (*gateway.PromptResult, error)
}

// MaxSleepMs is the clamp ceiling for mcp.sleep, per spec.md §4.1.
const MaxSleepMs = 5000

// API is the curated capability object surfaced to user code as `mcp`.
type API struct {
	registry ServerRegistry
	acct     Accounting
}

// New builds a Capability API bound to the given registry and the run's
// accounting/log sink.
func New(registry ServerRegistry, acct Accounting) *API {
	return &API{registry: registry, acct: acct}
}

// ListServers is billable: a snapshot of all registered servers regardless
// of status.
func (a *API) ListServers(context.Context) ([]gateway.ServerInfo, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	return a.registry.ListServers(), nil
}

// ListTools fans out over connected servers matching serverPattern,
// tagging each item with its server of origin and swallowing per-server
// errors (spec.md §4.1).
func (a *API) ListTools(ctx context.Context, serverPattern string) ([]gateway.ToolInfo, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	var out []gateway.ToolInfo
	for _, name := range matchingServers(a.registry, serverPattern) {
		tools, err := a.registry.ListTools(ctx, name)
		if err != nil {
			continue
		}
		for _, t := range tools {
			t.Server = name
			out = append(out, t)
		}
	}
	return out, nil
}

// CallTool dispatches to a named server; errors propagate (not swallowed),
// per spec.md §4.1/§7.
func (a *API) CallTool(ctx context.Context, server, tool string, args map[string]any) (*gateway.ToolResult, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	return a.registry.CallTool(ctx, server, tool, args)
}

// ListResources fans out like ListTools.
func (a *API) ListResources(ctx context.Context, serverPattern string) ([]gateway.ResourceInfo, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	var out []gateway.ResourceInfo
	for _, name := range matchingServers(a.registry, serverPattern) {
		resources, err := a.registry.ListResources(ctx, name)
		if err != nil {
			continue
		}
		for _, r := range resources {
			r.Server = name
			out = append(out, r)
		}
	}
	return out, nil
}

// ListResourceTemplates fans out like ListTools.
func (a *API) ListResourceTemplates(ctx context.Context, serverPattern string) ([]gateway.ResourceTemplateInfo, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	var out []gateway.ResourceTemplateInfo
	for _, name := range matchingServers(a.registry, serverPattern) {
		templates, err := a.registry.ListResourceTemplates(ctx, name)
		if err != nil {
			continue
		}
		for _, rt := range templates {
			rt.Server = name
			out = append(out, rt)
		}
	}
	return out, nil
}

// ReadResource dispatches to a named server; errors propagate.
func (a *API) ReadResource(ctx context.Context, server, uri string) (*gateway.ResourceContent, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	return a.registry.ReadResource(ctx, server, uri)
}

// ListPrompts fans out like ListTools.
func (a *API) ListPrompts(ctx context.Context, serverPattern string) ([]gateway.PromptInfo, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	var out []gateway.PromptInfo
	for _, name := range matchingServers(a.registry, serverPattern) {
		prompts, err := a.registry.ListPrompts(ctx, name)
		if err != nil {
			continue
		}
		for _, p := range prompts {
			p.Server = name
			out = append(out, p)
		}
	}
	return out, nil
}

// GetPrompt dispatches to a named server; errors propagate.
func (a *API) GetPrompt(ctx context.Context, server, name string, args map[string]string) (*gateway.PromptResult, error) {
	if err := a.acct.Billable(); err != nil {
		return nil, err
	}
	return a.registry.GetPrompt(ctx, server, name, args)
}

// Sleep is a free (non-billable) cooperative delay, clamped to
// [0, MaxSleepMs] ms. Cancellation of an in-flight sleep on deadline
// expiry is observational, like every other suspension point (spec.md §5):
// the host-level race in the sandbox runtime produces the timeout envelope
// independent of whether this call has returned. Because time.Sleep blocks
// the goroutine outside goja bytecode, Sandbox.Run's vm.Interrupt on
// timeout has no effect until this call returns and control is back in the
// VM — a run stuck in a long mcp.sleep can outlive its deadline by close
// to the remainder of the sleep before the abandoned goroutine notices.
func (*API) Sleep(ms int) {
	if ms < 0 {
		ms = 0
	}
	if ms > MaxSleepMs {
		ms = MaxSleepMs
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// Log is free: it formats its arguments like console.log and appends one
// line to the run's log buffer.
func (a *API) Log(vals ...any) {
	a.acct.Log(FormatLogLine(vals...))
}

// FormatLogLine joins formatted values with a single space, matching
// spec.md §4.2's console-capture formatter: primitives render as their
// usual textual form, compound values fall back to "%v".
func FormatLogLine(vals ...any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case nil:
		return "undefined"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// matchingServers resolves serverPattern against the connected server set,
// per spec.md §4.1: a case-insensitive regular expression if parseable,
// otherwise a literal equality match after lower-casing both sides. An
// empty pattern matches every connected server.
func matchingServers(registry ServerRegistry, serverPattern string) []string {
	connected := registry.ConnectedServerNames()
	if serverPattern == "" {
		return connected
	}

	if re, err := regexp.Compile("(?i)" + serverPattern); err == nil {
		var out []string
		for _, name := range connected {
			if re.MatchString(name) {
				out = append(out, name)
			}
		}
		return out
	}

	lower := strings.ToLower(serverPattern)
	var out []string
	for _, name := range connected {
		if strings.ToLower(name) == lower {
			out = append(out, name)
		}
	}
	return out
}
