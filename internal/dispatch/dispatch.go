package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

// Probe is a re-evaluable boolean predicate over main-process state.
type Probe func() bool

// ProbeRegistry holds the named probes eval-probe operations run.
type ProbeRegistry struct {
	mu     sync.Mutex
	probes map[string]Probe
}

// NewProbeRegistry creates an empty registry.
func NewProbeRegistry() *ProbeRegistry {
	return &ProbeRegistry{probes: make(map[string]Probe)}
}

// Register adds a probe under name, replacing any previous one.
func (r *ProbeRegistry) Register(name string, p Probe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[name] = p
}

// Eval evaluates the named probe. Fails with UNKNOWN_PROBE when the
// name is not registered.
func (r *ProbeRegistry) Eval(name string) (bool, error) {
	r.mu.Lock()
	probe := r.probes[name]
	r.mu.Unlock()

	if probe == nil {
		return false, &ops.Error{Code: ops.ErrCodeUnknownProbe, Message: fmt.Sprintf("no probe registered under %q", name)}
	}
	return probe(), nil
}

// Main is the privileged-process dispatcher.
type Main struct {
	Menu    *Menu
	IPC     *MainRegistry
	Windows *WindowManager
	Probes  *ProbeRegistry
}

// NewMain creates a dispatcher with empty registries and no menu.
func NewMain() *Main {
	return &Main{
		Menu:    &Menu{},
		IPC:     NewMainRegistry(),
		Windows: NewWindowManager(),
		Probes:  NewProbeRegistry(),
	}
}

// Dispatch interprets one descriptor against main-process state. All
// failures travel inside the Result; Dispatch itself never fails.
func (m *Main) Dispatch(_ context.Context, d ops.Descriptor) ops.Result {
	if err := d.Validate(); err != nil {
		return ops.FailResult(d.Token, err)
	}

	switch d.Kind {
	case ops.KindClickMenuItem:
		if err := m.Menu.ClickByID(d.MenuItemID); err != nil {
			return ops.FailResult(d.Token, err)
		}
		return ops.OKResult(d.Token, nil)

	case ops.KindMenuItemAttribute:
		item := m.Menu.FindByID(d.MenuItemID)
		if item == nil {
			return ops.FailResult(d.Token, &ops.Error{
				Code:    ops.ErrCodeMenuItemNotFound,
				Message: fmt.Sprintf("no menu item with id %q", d.MenuItemID),
			})
		}
		value, err := item.Attribute(d.Attribute)
		if err != nil {
			return ops.FailResult(d.Token, err)
		}
		return ops.OKResult(d.Token, value)

	case ops.KindIPCMainEmit:
		return ops.OKResult(d.Token, m.IPC.Emit(d.Channel, d.Args...))

	case ops.KindIPCMainInvokeFirst:
		value, err := m.IPC.InvokeFirst(d.Channel, d.Args...)
		if err != nil {
			return ops.FailResult(d.Token, err)
		}
		return ops.OKResult(d.Token, value)

	case ops.KindWindowCount:
		return ops.OKResult(d.Token, m.Windows.Count())

	case ops.KindEvalProbe:
		value, err := m.Probes.Eval(d.Probe)
		if err != nil {
			return ops.FailResult(d.Token, err)
		}
		return ops.OKResult(d.Token, value)

	default:
		return ops.FailResult(d.Token, &ops.Error{
			Code:    ops.ErrCodeUnknownOp,
			Message: fmt.Sprintf("%s is not a main-process operation", d.Kind),
		})
	}
}

// Renderer is one window's dispatcher.
type Renderer struct {
	// Window is the renderer's own window state.
	Window *WindowState

	// Main is the framework's message channel back to the privileged
	// process. Renderer ipc operations are delivered through it.
	Main *Main

	// DirectIPC reports whether this window was launched with the
	// relaxed-isolation configuration that exposes the messaging
	// primitive to injected operations. Hardened windows answer ipc
	// operations with IPC_DENIED.
	DirectIPC bool
}

// Dispatch interprets one descriptor against this renderer's state.
func (r *Renderer) Dispatch(_ context.Context, d ops.Descriptor) ops.Result {
	if err := d.Validate(); err != nil {
		return ops.FailResult(d.Token, err)
	}

	switch d.Kind {
	case ops.KindWindowTitle:
		return ops.OKResult(d.Token, r.Window.Title())

	case ops.KindIPCRendererSend:
		if !r.DirectIPC {
			return ops.FailResult(d.Token, deniedError())
		}
		r.Main.IPC.Emit(d.Channel, d.Args...)
		return ops.OKResult(d.Token, nil)

	case ops.KindIPCRendererInvoke:
		if !r.DirectIPC {
			return ops.FailResult(d.Token, deniedError())
		}
		value, err := r.Main.IPC.InvokeFirst(d.Channel, d.Args...)
		if err != nil {
			return ops.FailResult(d.Token, err)
		}
		return ops.OKResult(d.Token, value)

	default:
		return ops.FailResult(d.Token, &ops.Error{
			Code:    ops.ErrCodeUnknownOp,
			Message: fmt.Sprintf("%s is not a renderer operation", d.Kind),
		})
	}
}

func deniedError() *ops.Error {
	return &ops.Error{
		Code:    ops.ErrCodeIPCDenied,
		Message: "window context does not expose the messaging primitive; launch with ELECTRON_E2E_DIRECT_IPC=1",
	}
}
