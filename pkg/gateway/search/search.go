// Package search implements the Search Engine (spec.md C3): a pure
// transformation over a Registry snapshot that fans out capability
// enumeration across connected backends, filters with a user-supplied
// pattern, and groups the result by kind.
package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/mcpgateway/codemode/pkg/gateway"
)

// Request is the input to Search, per spec.md §6.
type Request struct {
	Query          string
	Type           string // "tools" | "resources" | "prompts" | "servers" | "all"
	Server         string
	IncludeSchemas bool
}

// Registry is the slice of the Server Registry the Search Engine needs.
// Declared locally, not imported from a concrete registry package, for the
// same reason capability.ServerRegistry is: spec.md treats the registry as
// an interface-only collaborator (§4.4).
type Registry interface {
	ListServers() []gateway.ServerInfo
	ConnectedServerNames() []string
	ListTools(ctx context.Context, server string) ([]gateway.ToolInfo, error)
	ListResources(ctx context.Context, server string) ([]gateway.ResourceInfo, error)
	ListPrompts(ctx context.Context, server string) ([]gateway.PromptInfo, error)
}

// Engine runs searches against a fixed registry.
type Engine struct {
	registry Registry
}

// New binds a search Engine to the registry it fans out over.
func New(registry Registry) *Engine {
	return &Engine{registry: registry}
}

// Search executes req and returns a map carrying only the keys the request's
// Type selected, per spec.md §4.3/§6. A query that fails to compile even
// after metacharacter-escaping yields an empty result rather than an error.
func (e *Engine) Search(ctx context.Context, req Request) map[string]any {
	kinds := kindsFor(req.Type)
	queryRe := compileQuery(req.Query)
	if queryRe == nil {
		return map[string]any{}
	}
	serverFilter := serverMatcher(req.Server)
	candidates := filterServers(e.registry.ConnectedServerNames(), serverFilter)

	out := map[string]any{}
	if kinds["servers"] {
		out["servers"] = e.matchServers(queryRe, serverFilter)
	}
	if kinds["tools"] {
		out["tools"] = e.matchTools(ctx, queryRe, candidates, req.IncludeSchemas)
	}
	if kinds["resources"] {
		out["resources"] = e.matchResources(ctx, queryRe, candidates)
	}
	if kinds["prompts"] {
		out["prompts"] = e.matchPrompts(ctx, queryRe, candidates)
	}
	return out
}

func (e *Engine) matchServers(queryRe *regexp.Regexp, serverFilter func(string) bool) []gateway.ServerInfo {
	var out []gateway.ServerInfo
	for _, s := range e.registry.ListServers() {
		if serverFilter(s.Name) && queryRe.MatchString(s.Name) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) matchTools(ctx context.Context, queryRe *regexp.Regexp, candidates []string, includeSchemas bool) []gateway.ToolInfo {
	var out []gateway.ToolInfo
	for _, server := range candidates {
		tools, err := e.registry.ListTools(ctx, server)
		if err != nil {
			continue
		}
		for _, t := range tools {
			if !matchesText(queryRe, t.Name, t.Description) {
				continue
			}
			t.Server = server
			if !includeSchemas {
				t.InputSchema = nil
			}
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) matchResources(ctx context.Context, queryRe *regexp.Regexp, candidates []string) []gateway.ResourceInfo {
	var out []gateway.ResourceInfo
	for _, server := range candidates {
		resources, err := e.registry.ListResources(ctx, server)
		if err != nil {
			continue
		}
		for _, r := range resources {
			if !matchesText(queryRe, r.Name, r.Description, r.URI) {
				continue
			}
			r.Server = server
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) matchPrompts(ctx context.Context, queryRe *regexp.Regexp, candidates []string) []gateway.PromptInfo {
	var out []gateway.PromptInfo
	for _, server := range candidates {
		prompts, err := e.registry.ListPrompts(ctx, server)
		if err != nil {
			continue
		}
		for _, p := range prompts {
			if !matchesText(queryRe, p.Name, p.Description) {
				continue
			}
			p.Server = server
			out = append(out, p)
		}
	}
	return out
}

func matchesText(re *regexp.Regexp, vals ...string) bool {
	for _, v := range vals {
		if v != "" && re.MatchString(v) {
			return true
		}
	}
	return false
}

func kindsFor(t string) map[string]bool {
	switch t {
	case "tools":
		return map[string]bool{"tools": true}
	case "resources":
		return map[string]bool{"resources": true}
	case "prompts":
		return map[string]bool{"prompts": true}
	case "servers":
		return map[string]bool{"servers": true}
	default:
		return map[string]bool{"tools": true, "resources": true, "prompts": true, "servers": true}
	}
}

// compileQuery parses query as a case-insensitive regular expression; on
// failure it escapes metacharacters and retries, per spec.md §4.3 step 1.
func compileQuery(query string) *regexp.Regexp {
	if re, err := regexp.Compile("(?i)" + query); err == nil {
		return re
	}
	if re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query)); err == nil {
		return re
	}
	return nil
}

// serverMatcher resolves the server filter identically to query: regex if
// parseable, else case-insensitive literal equality (spec.md §4.3 step 2).
// An empty pattern matches every server.
func serverMatcher(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return true }
	}
	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		return re.MatchString
	}
	lower := strings.ToLower(pattern)
	return func(name string) bool { return strings.ToLower(name) == lower }
}

func filterServers(names []string, match func(string) bool) []string {
	var out []string
	for _, n := range names {
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}
