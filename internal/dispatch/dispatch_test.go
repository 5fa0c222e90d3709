package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

func newTestMain(clicks *int) *Main {
	m := NewMain()
	m.Menu = demoMenu(clicks)
	return m
}

func TestMainDispatch_ClickMenuItem(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)

	res := m.Dispatch(context.Background(), ops.Descriptor{Token: "t1", Kind: ops.KindClickMenuItem, MenuItemID: "new-window"})
	require.NoError(t, res.Err())
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, 1, clicks)

	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindClickMenuItem, MenuItemID: "missing"})
	assert.True(t, ops.IsMenuItemNotFound(res.Err()))
}

func TestMainDispatch_MenuItemAttribute(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)

	res := m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindMenuItemAttribute, MenuItemID: "about", Attribute: "label"})
	require.NoError(t, res.Err())
	assert.Equal(t, "About Clicky", res.Value)
}

func TestMainDispatch_IPCMainEmit(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	calls := 0
	m.IPC.On("new-window", func(args ...any) { calls++ })
	m.IPC.On("new-window", func(args ...any) { calls++ })

	res := m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCMainEmit, Channel: "new-window"})
	require.NoError(t, res.Err())
	assert.Equal(t, true, res.Value)
	assert.Equal(t, 2, calls)

	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCMainEmit, Channel: "silent"})
	require.NoError(t, res.Err())
	assert.Equal(t, false, res.Value)
}

func TestMainDispatch_InvokeFirstListener(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	m.IPC.Handle("synchronous-message", func(args ...any) (any, error) { return "pong", nil })

	res := m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCMainInvokeFirst, Channel: "synchronous-message"})
	require.NoError(t, res.Err())
	assert.Equal(t, "pong", res.Value)

	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCMainInvokeFirst, Channel: "unhandled"})
	assert.True(t, ops.IsNoListener(res.Err()))
}

func TestMainDispatch_WindowCountAndProbe(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	m.Windows.Add("Window 1")
	m.Probes.Register("second-window-open", func() bool { return m.Windows.Count() >= 2 })

	res := m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindWindowCount})
	require.NoError(t, res.Err())
	assert.Equal(t, 1, res.Value)

	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindEvalProbe, Probe: "second-window-open"})
	require.NoError(t, res.Err())
	assert.Equal(t, false, res.Value)

	m.Windows.Add("Window 2")
	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindEvalProbe, Probe: "second-window-open"})
	require.NoError(t, res.Err())
	assert.Equal(t, true, res.Value)

	res = m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindEvalProbe, Probe: "unregistered"})
	require.Error(t, res.Err())
}

func TestMainDispatch_RendererOnlyKindRejected(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)

	res := m.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindWindowTitle})
	require.Error(t, res.Err())
	var oe *ops.Error
	require.ErrorAs(t, res.Err(), &oe)
	assert.Equal(t, ops.ErrCodeUnknownOp, oe.Code)
}

func TestRendererDispatch_Title(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	w := m.Windows.Add("Window 1")
	r := &Renderer{Window: w, Main: m, DirectIPC: true}

	res := r.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindWindowTitle})
	require.NoError(t, res.Err())
	assert.Equal(t, "Window 1", res.Value)
}

func TestRendererDispatch_SendReachesMainListeners(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	var got []any
	m.IPC.On("new-window", func(args ...any) { got = args })

	w := m.Windows.Add("Window 1")
	r := &Renderer{Window: w, Main: m, DirectIPC: true}

	res := r.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCRendererSend, Channel: "new-window", Args: []any{"from-test"}})
	require.NoError(t, res.Err())
	assert.Equal(t, []any{"from-test"}, got)
}

func TestRendererDispatch_InvokeReturnsHandlerResult(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	m.IPC.Handle("synchronous-message", func(args ...any) (any, error) { return 7, nil })

	r := &Renderer{Window: m.Windows.Add("Window 1"), Main: m, DirectIPC: true}
	res := r.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindIPCRendererInvoke, Channel: "synchronous-message"})
	require.NoError(t, res.Err())
	assert.Equal(t, 7, res.Value)
}

func TestRendererDispatch_HardenedWindowDeniesIPC(t *testing.T) {
	clicks := 0
	m := newTestMain(&clicks)
	r := &Renderer{Window: m.Windows.Add("Window 1"), Main: m, DirectIPC: false}

	for _, kind := range []ops.Kind{ops.KindIPCRendererSend, ops.KindIPCRendererInvoke} {
		res := r.Dispatch(context.Background(), ops.Descriptor{Kind: kind, Channel: "new-window"})
		assert.True(t, ops.IsIPCDenied(res.Err()), "kind=%s", kind)
	}

	// Title reads stay allowed; isolation gates ipc only.
	res := r.Dispatch(context.Background(), ops.Descriptor{Kind: ops.KindWindowTitle})
	require.NoError(t, res.Err())
}
