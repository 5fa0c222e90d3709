// Package bridge is the test-side surface for executing operations
// inside a running application's processes.
//
// Each helper builds an ops.Descriptor, ships it through the
// automation driver to the dispatcher in the target process, and
// decodes the answer. Failures reported by the dispatcher come back as
// *ops.Error values, so callers match on error codes
// (ops.IsMenuItemNotFound, ops.IsNoListener, ...) rather than text.
package bridge

import (
	"context"
	"fmt"

	"github.com/spaceagetv/electron-playwright-example/internal/driver"
	"github.com/spaceagetv/electron-playwright-example/internal/ops"
	"github.com/spaceagetv/electron-playwright-example/internal/poll"
)

// Bridge issues cross-process operations. The zero value is not
// usable; construct with New.
type Bridge struct {
	tokens ops.TokenGenerator
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTokenGenerator overrides the correlation token source. Tests use
// a fixed generator so descriptors are deterministic.
func WithTokenGenerator(g ops.TokenGenerator) Option {
	return func(b *Bridge) {
		b.tokens = g
	}
}

// New creates a Bridge with UUID correlation tokens.
func New(opts ...Option) *Bridge {
	b := &Bridge{tokens: ops.UUIDGenerator{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ClickMenuItemByID locates the menu item with the given id in the
// application's current menu tree and invokes its activation action.
// Fails with MENU_ITEM_NOT_FOUND when the id is absent.
func (b *Bridge) ClickMenuItemByID(ctx context.Context, app driver.App, id string) error {
	res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindClickMenuItem, MenuItemID: id})
	if err != nil {
		return err
	}
	return res.Err()
}

// GetMenuItemAttribute returns the named attribute of the menu item
// with the given id.
func (b *Bridge) GetMenuItemAttribute(ctx context.Context, app driver.App, id, attribute string) (any, error) {
	res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindMenuItemAttribute, MenuItemID: id, Attribute: attribute})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Value, nil
}

// IPCRendererSend emits a fire-and-forget message from the window's
// renderer process. Requires the window to run with the
// relaxed-isolation test configuration (driver.EnvDirectIPC); a
// hardened window fails with IPC_DENIED.
func (b *Bridge) IPCRendererSend(ctx context.Context, w driver.Window, channel string, args ...any) error {
	res, err := b.evalWindow(ctx, w, ops.Descriptor{Kind: ops.KindIPCRendererSend, Channel: channel, Args: args})
	if err != nil {
		return err
	}
	return res.Err()
}

// IPCRendererInvoke sends a request from the window's renderer process
// and returns the single reply. Same isolation precondition as
// IPCRendererSend.
func (b *Bridge) IPCRendererInvoke(ctx context.Context, w driver.Window, channel string, args ...any) (any, error) {
	res, err := b.evalWindow(ctx, w, ops.Descriptor{Kind: ops.KindIPCRendererInvoke, Channel: channel, Args: args})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Value, nil
}

// IPCMainEmit synthesizes receipt of a message in the main process, as
// if a renderer had sent it. All registered listeners run
// synchronously; the return reports whether any listener was
// registered. Zero listeners is not an error.
func (b *Bridge) IPCMainEmit(ctx context.Context, app driver.App, channel string, args ...any) (bool, error) {
	res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindIPCMainEmit, Channel: channel, Args: args})
	if err != nil {
		return false, err
	}
	if err := res.Err(); err != nil {
		return false, err
	}
	handled, ok := res.Value.(bool)
	if !ok {
		return false, fmt.Errorf("ipc-main-emit: unexpected result value %T", res.Value)
	}
	return handled, nil
}

// IPCMainInvokeFirstListener directly invokes the first registered
// handler for the message in the main process and returns its result.
// Fails with NO_LISTENER when none is registered.
func (b *Bridge) IPCMainInvokeFirstListener(ctx context.Context, app driver.App, channel string, args ...any) (any, error) {
	res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindIPCMainInvokeFirst, Channel: channel, Args: args})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Value, nil
}

// WindowCount returns how many windows the main process has created.
func (b *Bridge) WindowCount(ctx context.Context, app driver.App) (int, error) {
	res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindWindowCount})
	if err != nil {
		return 0, err
	}
	if err := res.Err(); err != nil {
		return 0, err
	}
	return toInt(res.Value)
}

// WaitForProbe polls the named main-process probe until it reports
// true. Probe errors (including UNKNOWN_PROBE) propagate immediately;
// cancellation is the caller's responsibility via ctx.
func (b *Bridge) WaitForProbe(ctx context.Context, app driver.App, probe string, opts ...poll.Option) error {
	return poll.WaitForCondition(ctx, func(ctx context.Context) (bool, error) {
		res, err := b.evalMain(ctx, app, ops.Descriptor{Kind: ops.KindEvalProbe, Probe: probe})
		if err != nil {
			return false, err
		}
		if err := res.Err(); err != nil {
			return false, err
		}
		value, ok := res.Value.(bool)
		if !ok {
			return false, fmt.Errorf("eval-probe %s: unexpected result value %T", probe, res.Value)
		}
		return value, nil
	}, opts...)
}

func (b *Bridge) evalMain(ctx context.Context, app driver.App, d ops.Descriptor) (ops.Result, error) {
	d.Token = b.tokens.Generate()
	res, err := app.MainEvaluate(ctx, d)
	if err != nil {
		return ops.Result{}, fmt.Errorf("main evaluate %s: %w", d.Kind, err)
	}
	return res, nil
}

func (b *Bridge) evalWindow(ctx context.Context, w driver.Window, d ops.Descriptor) (ops.Result, error) {
	d.Token = b.tokens.Generate()
	res, err := w.Evaluate(ctx, d)
	if err != nil {
		return ops.Result{}, fmt.Errorf("window evaluate %s: %w", d.Kind, err)
	}
	return res, nil
}

// toInt accepts the integer encodings a driver may hand back: in-process
// dispatchers answer with int, JSON transports with float64.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected count value %T", v)
	}
}
