package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apierrors "github.com/mcpgateway/codemode/pkg/errors"
	"github.com/mcpgateway/codemode/pkg/gateway"
	"github.com/mcpgateway/codemode/pkg/gateway/mocks"
)

func TestRegistry_AddListServers(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})
	r.Add(gateway.BackendConnection{Name: "b", Status: gateway.StatusDisconnected, Client: mocks.NewMockBackendClient(ctrl)})

	servers := r.ListServers()
	require.Len(t, servers, 2)
	assert.Equal(t, "a", servers[0].Name)
	assert.Equal(t, gateway.StatusConnected, servers[0].Status)
	assert.Equal(t, "b", servers[1].Name)
	assert.Equal(t, gateway.StatusDisconnected, servers[1].Status)
}

func TestRegistry_ConnectedServerNames(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})
	r.Add(gateway.BackendConnection{Name: "b", Status: gateway.StatusError, Client: mocks.NewMockBackendClient(ctrl)})
	r.Add(gateway.BackendConnection{Name: "c", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})

	assert.Equal(t, []string{"a", "c"}, r.ConnectedServerNames())
}

func TestRegistry_ListTools_MissingServer(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.ListTools(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apierrors.IsBackendNotFound(err))
}

func TestRegistry_ListTools_DisconnectedServer(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusDisconnected, Client: mocks.NewMockBackendClient(ctrl)})

	_, err := r.ListTools(context.Background(), "a")
	require.Error(t, err)
	assert.True(t, apierrors.IsBackendUnavailable(err))
}

func TestRegistry_CallTool_PropagatesBackendError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockBackendClient(ctrl)
	client.EXPECT().CallTool(gomock.Any(), "echo", gomock.Any()).Return(nil, errors.New("boom"))

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: client})

	_, err := r.CallTool(context.Background(), "a", "echo", nil)
	require.Error(t, err)
	assert.True(t, apierrors.IsBackendRejected(err))
	assert.ErrorContains(t, err, "boom")
}

func TestRegistry_CallTool_Success(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := &gateway.ToolResult{Content: []gateway.ToolContent{{Type: "text", Text: "Echo: hi"}}}
	client := mocks.NewMockBackendClient(ctrl)
	client.EXPECT().CallTool(gomock.Any(), "echo", map[string]any{"message": "hi"}).Return(want, nil)

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: client})

	got, err := r.CallTool(context.Background(), "a", "echo", map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRegistry_Remove_RejectsServerPendingRequests(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})
	id := r.EnqueuePending("a", PendingSampling, map[string]any{"prompt": "hi"})

	r.Remove("a")

	pending := r.ListPending()
	assert.Empty(t, pending, "rejected requests should no longer be listed as awaiting")

	err := r.RespondPending(id, map[string]any{"ok": true})
	require.Error(t, err, "a rejected request can no longer be responded to")

	assert.False(t, r.HasServer("a"))
}

func TestRegistry_Shutdown_RejectsAllPending(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := New()
	r.Add(gateway.BackendConnection{Name: "a", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})
	r.Add(gateway.BackendConnection{Name: "b", Status: gateway.StatusConnected, Client: mocks.NewMockBackendClient(ctrl)})
	r.EnqueuePending("a", PendingSampling, nil)
	r.EnqueuePending("b", PendingElicitation, nil)

	r.Shutdown()

	assert.Empty(t, r.ListPending())
}

func TestRegistry_NotificationsAndLogsDrain(t *testing.T) {
	t.Parallel()

	r := New()
	r.PushNotification(Notification{Server: "a", Method: "resources/list_changed"})
	r.PushLog(LogMessage{Server: "a", Level: "info", Message: "hello"})

	notes := r.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "resources/list_changed", notes[0].Method)

	assert.Empty(t, r.DrainNotifications(), "drain must clear the buffer")

	logs := r.DrainLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "hello", logs[0].Message)
	assert.Empty(t, r.DrainLogs())
}
