// Package driver declares the automation driver contract.
//
// The harness does not launch or inspect application processes itself;
// an external driver does, and the harness depends on exactly this
// interface and no more. Each Evaluate call is one asynchronous round
// trip into the target process: the calling task suspends until the
// remote dispatcher answers. Calls from one test execute in the order
// issued; the harness never has parallel bridge calls in flight from
// a single test step.
package driver

import (
	"context"

	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

// EnvDirectIPC is the environment variable that launches renderer
// windows with the relaxed-isolation configuration the bridge's
// renderer operations need. Production builds keep it unset and run
// hardened; the harness sets it to "1" in LaunchSpec.Env. The driver
// contract does not enforce this; a hardened renderer simply answers
// ipc operations with IPC_DENIED.
const EnvDirectIPC = "ELECTRON_E2E_DIRECT_IPC"

// LaunchSpec tells the driver what to start.
type LaunchSpec struct {
	// Executable is the absolute binary path, typically
	// bundle.AppInfo.Executable.
	Executable string

	// Args are extra command-line arguments.
	Args []string

	// Env is additional environment for the launched process, in
	// KEY=VALUE form.
	Env []string
}

// Driver launches application processes. Launch must be paired with
// App.Close on every path, pass or fail; teardown is unconditional.
type Driver interface {
	Launch(ctx context.Context, spec LaunchSpec) (App, error)
}

// App is a handle to one running application. It is owned by the
// calling test; the bridge takes a fresh reference per call and never
// caches or outlives it.
type App interface {
	// MainEvaluate executes one operation inside the privileged main
	// process and returns its result. The error return is for transport
	// failure only; operation failures travel inside the Result.
	MainEvaluate(ctx context.Context, d ops.Descriptor) (ops.Result, error)

	// WaitForWindow blocks until the application opens a window that
	// the harness has not yet observed, and returns its handle.
	WaitForWindow(ctx context.Context) (Window, error)

	// Windows returns handles for all currently open windows, in
	// creation order.
	Windows() []Window

	// Close terminates the application process. Safe to call more than
	// once; the harness calls it unconditionally during teardown.
	Close(ctx context.Context) error
}

// Window is a handle to one renderer process.
type Window interface {
	// Evaluate executes one operation inside this window's renderer
	// process.
	Evaluate(ctx context.Context, d ops.Descriptor) (ops.Result, error)

	// Title returns the window's current title.
	Title(ctx context.Context) (string, error)
}
