package config

import (
	"fmt"
)

// Validator checks a loaded Config for internal consistency beyond what
// YAML unmarshalling alone enforces, mirroring the teacher's separate
// loader/validator split.
type Validator struct{}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns the first consistency error found in cfg, or nil.
func (*Validator) Validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("name is required")
	}

	if err := validateExecution(cfg.Execution); err != nil {
		return err
	}

	seen := make(map[string]bool, len(cfg.Backends))
	for _, b := range cfg.Backends {
		if b.Name == "" {
			return fmt.Errorf("backends[]: name is required")
		}
		if seen[b.Name] {
			return fmt.Errorf("backends[]: duplicate name %q", b.Name)
		}
		seen[b.Name] = true

		switch b.Transport {
		case TransportHTTP:
			if b.URL == "" {
				return fmt.Errorf("backend %q: url is required for transport %q", b.Name, TransportHTTP)
			}
		case TransportStdio:
			if b.Command == "" {
				return fmt.Errorf("backend %q: command is required for transport %q", b.Name, TransportStdio)
			}
		default:
			return fmt.Errorf("backend %q: transport must be one of %q, %q", b.Name, TransportHTTP, TransportStdio)
		}
	}

	return nil
}

func validateExecution(e ExecutionConfig) error {
	if e.MinTimeoutMs <= 0 || e.MaxTimeoutMs <= 0 || e.DefaultTimeoutMs <= 0 {
		return fmt.Errorf("execution: timeout bounds must be positive")
	}
	if e.MinTimeoutMs > e.MaxTimeoutMs {
		return fmt.Errorf("execution: min_timeout_ms cannot exceed max_timeout_ms")
	}
	if e.DefaultTimeoutMs < e.MinTimeoutMs || e.DefaultTimeoutMs > e.MaxTimeoutMs {
		return fmt.Errorf("execution: default_timeout_ms must fall within [min_timeout_ms, max_timeout_ms]")
	}
	if e.MaxCodeLength <= 0 {
		return fmt.Errorf("execution: max_code_length must be positive")
	}
	if e.DefaultMaxMCPCalls <= 0 {
		return fmt.Errorf("execution: default_max_mcp_calls must be positive")
	}
	return nil
}
