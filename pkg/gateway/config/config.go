// Package config loads and validates the codemode gateway's YAML
// configuration: listen address, execution ceilings, and the backend
// server list the Server Registry is seeded from at startup.
package config

import "time"

// Config is the root configuration document.
type Config struct {
	Name             string          `yaml:"name"`
	Listen           ListenConfig    `yaml:"listen"`
	Execution        ExecutionConfig `yaml:"execution"`
	Backends         []BackendConfig `yaml:"backends"`
	ShutdownGraceRaw string          `yaml:"shutdown_grace_period"`
	ShutdownGrace    time.Duration   `yaml:"-"`
}

// ListenConfig is the gateway's own bind address.
type ListenConfig struct {
	Address string `yaml:"address"`
}

// ExecutionConfig carries the Sandbox Runtime's resource ceilings,
// overriding the validate package's compiled-in defaults. Zero values are
// replaced by those defaults during loading (see ApplyDefaults).
type ExecutionConfig struct {
	DefaultTimeoutMs   int `yaml:"default_timeout_ms"`
	MinTimeoutMs       int `yaml:"min_timeout_ms"`
	MaxTimeoutMs       int `yaml:"max_timeout_ms"`
	MaxCodeLength      int `yaml:"max_code_length"`
	DefaultMaxMCPCalls int `yaml:"default_max_mcp_calls"`
}

// Backend transport kinds a BackendConfig may declare.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// BackendConfig describes one backend MCP server the registry is seeded
// with at startup (registered as disconnected). The actual client transport is out of scope for this module
// (spec.md §1); this type only carries what a lifecycle collaborator would
// need to construct one.
type BackendConfig struct {
	Name         string `yaml:"name"`
	Transport    string `yaml:"transport"`
	URL          string `yaml:"url,omitempty"`
	Command      string `yaml:"command,omitempty"`
	AuthTokenEnv string `yaml:"auth_token_env,omitempty"`

	// AuthToken is resolved from AuthTokenEnv during loading; never read
	// from YAML directly.
	AuthToken string `yaml:"-"`
}

// ApplyDefaults fills zero-valued Execution fields from validate's compiled
// defaults, mirroring the teacher's pattern of a separate defaulting pass
// ahead of validation.
func (c *Config) ApplyDefaults(defaultTimeoutMs, minTimeoutMs, maxTimeoutMs, maxCodeLength, defaultMaxMCPCalls int) {
	if c.Execution.DefaultTimeoutMs == 0 {
		c.Execution.DefaultTimeoutMs = defaultTimeoutMs
	}
	if c.Execution.MinTimeoutMs == 0 {
		c.Execution.MinTimeoutMs = minTimeoutMs
	}
	if c.Execution.MaxTimeoutMs == 0 {
		c.Execution.MaxTimeoutMs = maxTimeoutMs
	}
	if c.Execution.MaxCodeLength == 0 {
		c.Execution.MaxCodeLength = maxCodeLength
	}
	if c.Execution.DefaultMaxMCPCalls == 0 {
		c.Execution.DefaultMaxMCPCalls = defaultMaxMCPCalls
	}
	if c.Listen.Address == "" {
		c.Listen.Address = ":8080"
	}
}
