package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestYAMLLoader_Load_Minimal(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, `
name: test-gateway
listen:
  address: ":9090"
execution:
  default_timeout_ms: 30000
  min_timeout_ms: 1000
  max_timeout_ms: 300000
  max_code_length: 100000
  default_max_mcp_calls: 100
backends:
  - name: fetch
    transport: http
    url: "http://localhost:9001"
`)

	cfg, err := NewYAMLLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "test-gateway", cfg.Name)
	assert.Equal(t, ":9090", cfg.Listen.Address)
	require.Len(t, cfg.Backends, 1)
	assert.Equal(t, "fetch", cfg.Backends[0].Name)
}

func TestYAMLLoader_Load_ResolvesAuthTokenEnv(t *testing.T) {
	t.Setenv("TEST_BACKEND_TOKEN", "secret-value")
	path := writeTemp(t, `
name: test-gateway
backends:
  - name: github
    transport: http
    url: "http://localhost:9002"
    auth_token_env: TEST_BACKEND_TOKEN
`)

	cfg, err := NewYAMLLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-value", cfg.Backends[0].AuthToken)
}

func TestYAMLLoader_Load_MissingEnvVar(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, `
name: test-gateway
backends:
  - name: github
    transport: http
    url: "http://localhost:9002"
    auth_token_env: DEFINITELY_NOT_SET_VAR
`)

	_, err := NewYAMLLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment variable DEFINITELY_NOT_SET_VAR not set")
}

func TestYAMLLoader_Load_InvalidYAMLSyntax(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "name: test-gateway\nbackends\n  - bad indent")

	_, err := NewYAMLLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestYAMLLoader_Load_InvalidShutdownGrace(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, `
name: test-gateway
shutdown_grace_period: not-a-duration
`)

	_, err := NewYAMLLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shutdown_grace_period")
}

func TestYAMLLoader_Load_ValidShutdownGrace(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, `
name: test-gateway
shutdown_grace_period: 15s
`)

	cfg, err := NewYAMLLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.ShutdownGrace)
}

func TestYAMLLoader_Load_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := NewYAMLLoader("/non/existent/config.yaml").Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read config file"))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	cfg.ApplyDefaults(30000, 1000, 300000, 100000, 100)

	assert.Equal(t, 30000, cfg.Execution.DefaultTimeoutMs)
	assert.Equal(t, 1000, cfg.Execution.MinTimeoutMs)
	assert.Equal(t, 300000, cfg.Execution.MaxTimeoutMs)
	assert.Equal(t, 100000, cfg.Execution.MaxCodeLength)
	assert.Equal(t, 100, cfg.Execution.DefaultMaxMCPCalls)
	assert.Equal(t, ":8080", cfg.Listen.Address)
}

func TestConfig_ApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	t.Parallel()
	cfg := &Config{Execution: ExecutionConfig{DefaultTimeoutMs: 5000}, Listen: ListenConfig{Address: ":1234"}}
	cfg.ApplyDefaults(30000, 1000, 300000, 100000, 100)

	assert.Equal(t, 5000, cfg.Execution.DefaultTimeoutMs)
	assert.Equal(t, ":1234", cfg.Listen.Address)
}
