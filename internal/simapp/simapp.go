// Package simapp is an in-process simulation of the demo application,
// implementing the automation driver contract.
//
// The simulated app mirrors the two-window demo the harness is built
// to exercise: a File > New Window menu item, an ipcMain "new-window"
// listener that opens another window titled from the process-wide
// window counter, a "synchronous-message" invoke handler, and a
// "second-window-open" probe. Scenario runs and package tests drive it
// exactly as they would a real packaged build, minus the real
// processes.
package simapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spaceagetv/electron-playwright-example/internal/dispatch"
	"github.com/spaceagetv/electron-playwright-example/internal/driver"
	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

// ErrClosed is returned by bridge calls against a closed application.
var ErrClosed = errors.New("application is closed")

// Driver launches simulated applications.
type Driver struct{}

// NewDriver creates a simulated driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Launch starts a simulated application. When spec.Executable is set
// it must name an existing file, the same contract a real driver has.
// The renderer isolation configuration is taken from spec.Env: windows
// expose direct ipc access only when driver.EnvDirectIPC is "1".
func (d *Driver) Launch(_ context.Context, spec driver.LaunchSpec) (driver.App, error) {
	if spec.Executable != "" {
		if _, err := os.Stat(spec.Executable); err != nil {
			return nil, fmt.Errorf("launch: executable not found: %w", err)
		}
	}
	return newApp(directIPCEnabled(spec.Env)), nil
}

func directIPCEnabled(env []string) bool {
	for _, kv := range env {
		if kv == driver.EnvDirectIPC+"=1" {
			return true
		}
		// Tolerate other values of the variable; only "1" relaxes.
		if strings.HasPrefix(kv, driver.EnvDirectIPC+"=") {
			return false
		}
	}
	return false
}

// App is one running simulated application.
type App struct {
	main      *dispatch.Main
	directIPC bool

	mu      sync.Mutex
	closed  bool
	windows []*Window

	// unobserved feeds WaitForWindow with windows the harness has not
	// seen yet, in creation order.
	unobserved chan *Window
}

func newApp(directIPC bool) *App {
	app := &App{
		main:       dispatch.NewMain(),
		directIPC:  directIPC,
		unobserved: make(chan *Window, 64),
	}

	app.main.Menu = &dispatch.Menu{Items: []*dispatch.MenuItem{
		{
			Label: "File",
			Submenu: []*dispatch.MenuItem{
				{ID: "new-window", Label: "New Window", Enabled: true, Click: func() { app.createWindow() }},
			},
		},
		{
			Label: "Help",
			Submenu: []*dispatch.MenuItem{
				{ID: "about", Label: "About", Enabled: true},
			},
		},
	}}

	app.main.IPC.On("new-window", func(...any) {
		app.createWindow()
	})
	app.main.IPC.Handle("synchronous-message", func(args ...any) (any, error) {
		if len(args) == 0 {
			return "pong", nil
		}
		return fmt.Sprintf("pong: %v", args[0]), nil
	})
	app.main.Probes.Register("second-window-open", func() bool {
		return app.main.Windows.Count() >= 2
	})

	// The demo opens its first window on startup.
	app.createWindow()
	return app
}

// createWindow opens one window titled from the window counter.
func (a *App) createWindow() *Window {
	state := a.main.Windows.Add("")
	state.SetTitle(fmt.Sprintf("Window %d", state.Index))

	w := &Window{
		app: a,
		renderer: &dispatch.Renderer{
			Window:    state,
			Main:      a.main,
			DirectIPC: a.directIPC,
		},
	}

	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()

	select {
	case a.unobserved <- w:
	default:
		// Window backlog overflow only happens when a test opens
		// dozens of windows without observing any; drop for WaitForWindow
		// purposes, Windows() still lists it.
	}
	return w
}

// MainEvaluate implements driver.App.
func (a *App) MainEvaluate(ctx context.Context, d ops.Descriptor) (ops.Result, error) {
	if a.isClosed() {
		return ops.Result{}, ErrClosed
	}
	return a.main.Dispatch(ctx, d), nil
}

// WaitForWindow implements driver.App.
func (a *App) WaitForWindow(ctx context.Context) (driver.Window, error) {
	if a.isClosed() {
		return nil, ErrClosed
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case w := <-a.unobserved:
		return w, nil
	}
}

// Windows implements driver.App.
func (a *App) Windows() []driver.Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]driver.Window, len(a.windows))
	for i, w := range a.windows {
		out[i] = w
	}
	return out
}

// Close implements driver.App. Idempotent.
func (a *App) Close(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

func (a *App) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Window is one simulated renderer.
type Window struct {
	app      *App
	renderer *dispatch.Renderer
}

// Evaluate implements driver.Window.
func (w *Window) Evaluate(ctx context.Context, d ops.Descriptor) (ops.Result, error) {
	if w.app.isClosed() {
		return ops.Result{}, ErrClosed
	}
	return w.renderer.Dispatch(ctx, d), nil
}

// Title implements driver.Window via a window-title round trip.
func (w *Window) Title(ctx context.Context) (string, error) {
	res, err := w.Evaluate(ctx, ops.Descriptor{Kind: ops.KindWindowTitle})
	if err != nil {
		return "", err
	}
	if err := res.Err(); err != nil {
		return "", err
	}
	title, ok := res.Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected title value %T", res.Value)
	}
	return title, nil
}
