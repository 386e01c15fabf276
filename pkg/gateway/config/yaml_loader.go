package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLLoader reads a Config document from a file path, resolving
// `*_env`-suffixed indirections against the process environment. The shape
// mirrors the teacher's own config loader: a loader bound to one path, a
// single Load() that returns a fully resolved *Config or a descriptive
// error.
type YAMLLoader struct {
	path string
}

// NewYAMLLoader binds a loader to path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{path: path}
}

// Load reads, parses, and resolves the configuration at l.path.
func (l *YAMLLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range cfg.Backends {
		b := &cfg.Backends[i]
		if b.AuthTokenEnv == "" {
			continue
		}
		val, ok := os.LookupEnv(b.AuthTokenEnv)
		if !ok {
			return nil, fmt.Errorf("environment variable %s not set", b.AuthTokenEnv)
		}
		b.AuthToken = val
	}

	if cfg.ShutdownGraceRaw != "" {
		d, err := time.ParseDuration(cfg.ShutdownGraceRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid shutdown_grace_period: %w", err)
		}
		cfg.ShutdownGrace = d
	}

	return &cfg, nil
}
