package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgateway/codemode/pkg/gateway"
	"github.com/mcpgateway/codemode/pkg/gateway/validate"
)

// fakeRegistry implements capability.ServerRegistry with a single
// "test-server" exposing one "echo" tool, matching spec.md §8's
// end-to-end scenario fixture.
type fakeRegistry struct {
	servers   []gateway.ServerInfo
	connected []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		servers:   []gateway.ServerInfo{{Name: "test-server", Status: gateway.StatusConnected}},
		connected: []string{"test-server"},
	}
}

func (f *fakeRegistry) ListServers() []gateway.ServerInfo { return f.servers }
func (f *fakeRegistry) ConnectedServerNames() []string    { return f.connected }

func (f *fakeRegistry) ListTools(context.Context, string) ([]gateway.ToolInfo, error) {
	return []gateway.ToolInfo{{Name: "echo"}}, nil
}

func (f *fakeRegistry) CallTool(_ context.Context, server, tool string, args map[string]any) (*gateway.ToolResult, error) {
	msg, _ := args["message"].(string)
	return &gateway.ToolResult{Content: []gateway.ToolContent{{Type: "text", Text: "Echo: " + msg}}}, nil
}

func (f *fakeRegistry) ListResources(context.Context, string) ([]gateway.ResourceInfo, error) {
	return nil, nil
}
func (f *fakeRegistry) ListResourceTemplates(context.Context, string) ([]gateway.ResourceTemplateInfo, error) {
	return nil, nil
}
func (f *fakeRegistry) ReadResource(context.Context, string, string) (*gateway.ResourceContent, error) {
	return nil, nil
}
func (f *fakeRegistry) ListPrompts(context.Context, string) ([]gateway.PromptInfo, error) {
	return nil, nil
}
func (f *fakeRegistry) GetPrompt(context.Context, string, string, map[string]string) (*gateway.PromptResult, error) {
	return nil, nil
}

func TestRun_ArithmeticReturnValue(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), "return 1 + 1", Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	assert.InDelta(t, 2, r.Result, 0)
	assert.Equal(t, 0, r.Stats.MCPCalls)
	assert.Less(t, r.Stats.DurationMs, int64(1000))
}

func TestRun_DeniedGlobalIsUndefined(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), "return typeof process", Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	assert.Equal(t, "undefined", r.Result)
}

func TestRun_AllowedIntrinsicIsDefined(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), "return typeof JSON", Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	assert.NotEqual(t, "undefined", r.Result)
}

func TestRun_BudgetExceeded(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	code := `for (let i = 0; i < 10; i++) { await mcp.listServers(); } return "done";`
	r := sb.Run(context.Background(), code, Config{TimeoutMs: 5000, MaxMCPCalls: 5}, nil)

	require.False(t, r.Success)
	assert.True(t, validate.IsCallLimitExceeded(r))
	assert.GreaterOrEqual(t, r.Stats.MCPCalls, 5)
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	code := `while (true) { await mcp.sleep(10); }`
	start := time.Now()
	r := sb.Run(context.Background(), code, Config{TimeoutMs: 300, MaxMCPCalls: 1000}, nil)
	elapsed := time.Since(start)

	require.False(t, r.Success)
	assert.True(t, validate.IsTimeout(r))
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRun_LogOrderingAndFormatting(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	code := `mcp.log("first"); mcp.log("second", 123); return "done";`
	r := sb.Run(context.Background(), code, Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	require.Len(t, r.Logs, 2)
	assert.Equal(t, "first", r.Logs[0])
	assert.Equal(t, "second 123", r.Logs[1])
	assert.Equal(t, 0, r.Stats.MCPCalls)
}

func TestRun_InitialLogsPrecedeUserLogs(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), `mcp.log("user"); return null;`, Config{TimeoutMs: 1000, MaxMCPCalls: 10}, []string{"seed"})

	require.True(t, r.Success)
	require.Len(t, r.Logs, 2)
	assert.Equal(t, "seed", r.Logs[0])
	assert.Equal(t, "user", r.Logs[1])
}

func TestRun_CallToolRoundTrip(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	code := `const r = await mcp.callTool("test-server", "echo", {message: "hello"}); return r.content[0].text;`
	r := sb.Run(context.Background(), code, Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	assert.Equal(t, "Echo: hello", r.Result)
	assert.Equal(t, 1, r.Stats.MCPCalls)
}

func TestRun_SyntaxError(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), "return (((", Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.False(t, r.Success)
	assert.Equal(t, validate.ErrNameSyntax, r.Error.Name)
}

func TestRun_RuntimeErrorFromUserThrow(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), `throw new TypeError("boom");`, Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.False(t, r.Success)
	assert.Equal(t, "TypeError", r.Error.Name)
	assert.Equal(t, "boom", r.Error.Message)
}

func TestRun_UndefinedReturnNormalizesToNil(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	r := sb.Run(context.Background(), "1 + 1;", Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)

	require.True(t, r.Success)
	assert.Nil(t, r.Result)
}

func TestRun_ExactlyOneClassifierHolds(t *testing.T) {
	t.Parallel()
	sb := New(newFakeRegistry())
	cases := []string{
		"return 1",
		`throw new Error("boom");`,
	}
	for _, code := range cases {
		r := sb.Run(context.Background(), code, Config{TimeoutMs: 1000, MaxMCPCalls: 10}, nil)
		held := 0
		if validate.IsSuccess(r) {
			held++
		}
		if validate.IsTimeout(r) {
			held++
		}
		if validate.IsCallLimitExceeded(r) {
			held++
		}
		if validate.IsOtherFailure(r) {
			held++
		}
		assert.Equal(t, 1, held)
	}
}
