package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgateway/codemode/pkg/gateway/validate"
)

func TestNewProvider_DisabledIsNoopAndSafe(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	p.RecordExecution(context.Background(), validate.Succeed(1, nil, validate.ExecutionStats{}))
	p.RecordSearch(context.Background())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_EnabledRecordsWithoutError(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(context.Background(), Config{Enabled: true, MetricsEnabled: true, ServiceName: "codemode-test"})
	require.NoError(t, err)
	require.NotNil(t, p)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	p.RecordExecution(context.Background(), validate.Succeed(1, nil, validate.ExecutionStats{DurationMs: 5, MCPCalls: 2}))
	p.RecordExecution(context.Background(), validate.Fail(validate.ErrNameTimeout, validate.TimeoutMessage(500), nil, validate.ExecutionStats{}))
	p.RecordExecution(context.Background(), validate.Fail(validate.ErrNameBudget, validate.BudgetMessage(5), nil, validate.ExecutionStats{}))
	p.RecordSearch(context.Background())
}
