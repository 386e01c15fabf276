package capability

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mcpgateway/codemode/pkg/gateway"
	"github.com/mcpgateway/codemode/pkg/gateway/capability/mocks"
)

type fakeAccounting struct {
	max      int
	calls    int
	billErr  error
	logLines []string
}

func (f *fakeAccounting) Billable() error {
	if f.billErr != nil {
		return f.billErr
	}
	f.calls++
	if f.max > 0 && f.calls > f.max {
		return errors.New("Maximum mcp.* call limit exceeded (" + strconv.Itoa(f.max) + ")")
	}
	return nil
}

func (f *fakeAccounting) Log(line string) { f.logLines = append(f.logLines, line) }

func TestAPI_ListServers_IsBillable(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().ListServers().Return([]gateway.ServerInfo{{Name: "a"}})

	acct := &fakeAccounting{}
	api := New(reg, acct)

	got, err := api.ListServers(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, acct.calls)
}

func TestAPI_ListTools_FanOutSwallowsPerServerErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().ConnectedServerNames().Return([]string{"good", "bad"})
	reg.EXPECT().ListTools(gomock.Any(), "good").Return([]gateway.ToolInfo{{Name: "echo"}}, nil)
	reg.EXPECT().ListTools(gomock.Any(), "bad").Return(nil, errors.New("unreachable"))

	api := New(reg, &fakeAccounting{})

	got, err := api.ListTools(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Server)
}

func TestAPI_ListTools_TagsServerEvenIfBackendOmittedIt(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().ConnectedServerNames().Return([]string{"svc"})
	reg.EXPECT().ListTools(gomock.Any(), "svc").Return([]gateway.ToolInfo{{Name: "echo"}}, nil)

	api := New(reg, &fakeAccounting{})

	got, err := api.ListTools(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "svc", got[0].Server)
}

func TestAPI_CallTool_PropagatesErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().CallTool(gomock.Any(), "svc", "echo", gomock.Any()).Return(nil, errors.New("backend rejected"))

	api := New(reg, &fakeAccounting{})

	_, err := api.CallTool(context.Background(), "svc", "echo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend rejected")
}

func TestAPI_CallTool_BudgetExceeded(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().CallTool(gomock.Any(), "svc", "echo", gomock.Any()).Return(&gateway.ToolResult{}, nil)

	acct := &fakeAccounting{max: 1}
	api := New(reg, acct)

	_, err := api.CallTool(context.Background(), "svc", "echo", nil)
	require.NoError(t, err)

	_, err = api.CallTool(context.Background(), "svc", "echo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call limit exceeded")
}

func TestAPI_Sleep_ShortDelayReturnsPromptly(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := New(mocks.NewMockServerRegistry(ctrl), &fakeAccounting{})
	start := time.Now()
	api.Sleep(10)
	elapsed := time.Since(start)
	assert.Less(t, elapsed.Milliseconds(), int64(200))
}

func TestAPI_Sleep_IsNotBillable(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	acct := &fakeAccounting{}
	api := New(mocks.NewMockServerRegistry(ctrl), acct)
	api.Sleep(1)
	assert.Equal(t, 0, acct.calls)
}

func TestAPI_Log_FormatsAndAppendsWithoutBilling(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	acct := &fakeAccounting{}
	api := New(mocks.NewMockServerRegistry(ctrl), acct)

	api.Log("first")
	api.Log("second", 123)

	require.Len(t, acct.logLines, 2)
	assert.Equal(t, "first", acct.logLines[0])
	assert.Equal(t, "second 123", acct.logLines[1])
	assert.Equal(t, 0, acct.calls)
}

func TestMatchingServers_RegexThenEqualityFallback(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockServerRegistry(ctrl)
	reg.EXPECT().ConnectedServerNames().Return([]string{"GitHub", "fetch", "slack"}).AnyTimes()

	got := matchingServers(reg, "git.*")
	assert.Equal(t, []string{"GitHub"}, got)

	got = matchingServers(reg, "[invalid(regex")
	assert.Empty(t, got, "unparseable pattern falls back to literal equality, matching nothing here")

	got = matchingServers(reg, "FETCH")
	assert.Equal(t, []string{"fetch"}, got, "regex match is case-insensitive")
}
