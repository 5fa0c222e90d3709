package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spaceagetv/electron-playwright-example/internal/bridge"
	"github.com/spaceagetv/electron-playwright-example/internal/bundle"
	"github.com/spaceagetv/electron-playwright-example/internal/driver"
	"github.com/spaceagetv/electron-playwright-example/internal/ops"
	"github.com/spaceagetv/electron-playwright-example/internal/poll"
)

// outcomeError marks completions that failed outside the operation
// protocol: window index out of range, transport failure, timeout.
const outcomeError = "ERROR"

// outcomeExpectationFailed marks expect_title and expect_window_count
// completions whose observed value did not match.
const outcomeExpectationFailed = "EXPECTATION_FAILED"

// DefaultWaitTimeout bounds wait_for and wait_window steps.
const DefaultWaitTimeout = 5 * time.Second

// Recorder persists trace events as they happen. The session store
// implements it; a nil recorder disables persistence.
type Recorder interface {
	BeginSession(ctx context.Context, token, scenario string) error
	RecordEvent(ctx context.Context, sessionToken string, e TraceEvent) error
}

// Runner executes scenarios against a driver.
type Runner struct {
	driver      driver.Driver
	bridge      *bridge.Bridge
	recorder    Recorder
	tokens      ops.TokenGenerator
	logger      *slog.Logger
	waitTimeout time.Duration
	pollOpts    []poll.Option
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder persists every trace event to the given store.
func WithRecorder(r Recorder) RunnerOption {
	return func(run *Runner) { run.recorder = r }
}

// WithLogger replaces the default discard logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(run *Runner) { run.logger = l }
}

// WithTokenGenerator replaces the UUID session token source. Tests use
// a fixed generator for stable traces.
func WithTokenGenerator(g ops.TokenGenerator) RunnerOption {
	return func(run *Runner) { run.tokens = g }
}

// WithWaitTimeout bounds each wait_for and wait_window step.
func WithWaitTimeout(d time.Duration) RunnerOption {
	return func(run *Runner) { run.waitTimeout = d }
}

// WithPollOptions forwards options to the probe polling loop.
func WithPollOptions(opts ...poll.Option) RunnerOption {
	return func(run *Runner) { run.pollOpts = opts }
}

// NewRunner builds a Runner for the given driver.
func NewRunner(d driver.Driver, opts ...RunnerOption) *Runner {
	r := &Runner{
		driver:      d,
		bridge:      bridge.New(),
		tokens:      ops.UUIDGenerator{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the scenario, launches the application, executes every
// step in order, evaluates the assertions, and returns the result.
// The application is closed on every path once launched. The error
// return covers structural failures (invalid scenario, no build,
// launch failure, recorder failure); step and assertion failures
// travel inside the Result.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, err
	}

	token := scenario.SessionToken
	if token == "" {
		token = r.tokens.Generate()
	}
	result := newResult(token)

	spec, err := r.launchSpec(scenario.Launch)
	if err != nil {
		return nil, err
	}

	if r.recorder != nil {
		if err := r.recorder.BeginSession(ctx, token, scenario.Name); err != nil {
			return nil, fmt.Errorf("begin session: %w", err)
		}
	}

	r.logger.Info("launching application",
		"scenario", scenario.Name,
		"executable", spec.Executable,
		"session", token)

	app, err := r.driver.Launch(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", spec.Executable, err)
	}
	defer func() {
		if closeErr := app.Close(context.WithoutCancel(ctx)); closeErr != nil {
			r.logger.Warn("close application", "error", closeErr)
		}
	}()

	for i, step := range scenario.Steps {
		if err := r.runStep(ctx, result, app, i, step); err != nil {
			return nil, err
		}
	}

	for i, assertion := range scenario.Assertions {
		if err := EvaluateAssertion(result.Trace, assertion); err != nil {
			result.addError(fmt.Sprintf("assertion %d: %v", i+1, err))
		}
	}

	r.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"passed", result.Passed,
		"events", len(result.Trace))

	return result, nil
}

// launchSpec resolves the scenario's launch block to a concrete
// executable, introspecting build directories as needed.
func (r *Runner) launchSpec(l Launch) (driver.LaunchSpec, error) {
	spec := driver.LaunchSpec{Args: l.Args}
	if l.DirectIPC {
		spec.Env = append(spec.Env, driver.EnvDirectIPC+"=1")
	}

	switch {
	case l.Executable != "":
		spec.Executable = l.Executable
	case l.BuildDir != "":
		info, err := bundle.ParseApp(l.BuildDir)
		if err != nil {
			return driver.LaunchSpec{}, err
		}
		spec.Executable = info.Executable
	default:
		build, err := bundle.FindLatestBuild(l.BuildRoot)
		if err != nil {
			return driver.LaunchSpec{}, err
		}
		info, err := bundle.ParseApp(build.Path)
		if err != nil {
			return driver.LaunchSpec{}, err
		}
		spec.Executable = info.Executable
	}
	return spec, nil
}

// runStep records the call event, executes the step, and records the
// completion. Operation failures and expectation mismatches mark the
// result failed and execution continues; only recorder failures abort
// the run.
func (r *Runner) runStep(ctx context.Context, result *Result, app driver.App, index int, step Step) error {
	kind, err := step.Kind()
	if err != nil {
		// Unreachable after ValidateScenario, kept for direct Step use.
		return fmt.Errorf("step %d: %w", index+1, err)
	}

	call := TraceEvent{Seq: result.nextSeq(), Type: EventCall, Op: kind}
	call.Target, call.Window, call.Args = stepSubject(step)
	if err := r.record(ctx, result, call); err != nil {
		return err
	}

	value, outcome, stepErr := r.execute(ctx, app, step, kind)

	completion := TraceEvent{
		Seq:     result.nextSeq(),
		Type:    EventCompletion,
		Op:      kind,
		Outcome: outcome,
		Value:   value,
	}
	if err := r.record(ctx, result, completion); err != nil {
		return err
	}

	if stepErr != nil {
		result.addError(fmt.Sprintf("step %d (%s): %v", index+1, kind, stepErr))
		r.logger.Warn("step failed", "step", index+1, "op", kind, "error", stepErr)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, result *Result, e TraceEvent) error {
	result.Trace = append(result.Trace, e)
	if r.recorder == nil {
		return nil
	}
	if err := r.recorder.RecordEvent(ctx, result.SessionToken, e); err != nil {
		return fmt.Errorf("record event %d: %w", e.Seq, err)
	}
	return nil
}

// stepSubject extracts the target, window, and args a step addresses
// for the call event.
func stepSubject(step Step) (target string, window int, args []any) {
	switch {
	case step.ClickMenu != "":
		return step.ClickMenu, 0, nil
	case step.MenuAttribute != nil:
		return step.MenuAttribute.ID, 0, []any{step.MenuAttribute.Attribute}
	case step.IPCSend != nil:
		return step.IPCSend.Channel, windowIndex(step.IPCSend.Window), step.IPCSend.Args
	case step.IPCInvoke != nil:
		return step.IPCInvoke.Channel, windowIndex(step.IPCInvoke.Window), step.IPCInvoke.Args
	case step.IPCEmit != nil:
		return step.IPCEmit.Channel, 0, step.IPCEmit.Args
	case step.IPCInvokeMain != nil:
		return step.IPCInvokeMain.Channel, 0, step.IPCInvokeMain.Args
	case step.WaitFor != "":
		return step.WaitFor, 0, nil
	case step.ExpectTitle != nil:
		return "", windowIndex(step.ExpectTitle.Window), nil
	default:
		return "", 0, nil
	}
}

// execute performs one step and reports the observed value, the
// completion outcome, and the error to attach to the result.
func (r *Runner) execute(ctx context.Context, app driver.App, step Step, kind string) (any, string, error) {
	switch kind {
	case StepClickMenu:
		return settle(nil, r.bridge.ClickMenuItemByID(ctx, app, step.ClickMenu))

	case StepMenuAttribute:
		value, err := r.bridge.GetMenuItemAttribute(ctx, app, step.MenuAttribute.ID, step.MenuAttribute.Attribute)
		return settle(value, err)

	case StepIPCSend:
		w, err := windowAt(app, step.IPCSend.Window)
		if err != nil {
			return nil, outcomeError, err
		}
		return settle(nil, r.bridge.IPCRendererSend(ctx, w, step.IPCSend.Channel, step.IPCSend.Args...))

	case StepIPCInvoke:
		w, err := windowAt(app, step.IPCInvoke.Window)
		if err != nil {
			return nil, outcomeError, err
		}
		value, err := r.bridge.IPCRendererInvoke(ctx, w, step.IPCInvoke.Channel, step.IPCInvoke.Args...)
		return settle(value, err)

	case StepIPCEmit:
		delivered, err := r.bridge.IPCMainEmit(ctx, app, step.IPCEmit.Channel, step.IPCEmit.Args...)
		return settle(delivered, err)

	case StepIPCInvokeMain:
		value, err := r.bridge.IPCMainInvokeFirstListener(ctx, app, step.IPCInvokeMain.Channel, step.IPCInvokeMain.Args...)
		return settle(value, err)

	case StepWaitFor:
		waitCtx, cancel := context.WithTimeout(ctx, r.waitTimeout)
		defer cancel()
		return settle(nil, r.bridge.WaitForProbe(waitCtx, app, step.WaitFor, r.pollOpts...))

	case StepWaitWindow:
		waitCtx, cancel := context.WithTimeout(ctx, r.waitTimeout)
		defer cancel()
		w, err := app.WaitForWindow(waitCtx)
		if err != nil {
			return nil, outcomeError, err
		}
		title, err := w.Title(ctx)
		return settle(title, err)

	case StepExpectTitle:
		w, err := windowAt(app, step.ExpectTitle.Window)
		if err != nil {
			return nil, outcomeError, err
		}
		title, err := w.Title(ctx)
		if err != nil {
			return nil, outcomeError, err
		}
		if title != step.ExpectTitle.Equals {
			return title, outcomeExpectationFailed,
				fmt.Errorf("window %d title is %q, want %q", windowIndex(step.ExpectTitle.Window), title, step.ExpectTitle.Equals)
		}
		return title, OutcomeOK, nil

	case StepExpectWindowCount:
		count, err := r.bridge.WindowCount(ctx, app)
		if err != nil {
			return nil, outcomeError, err
		}
		if count != *step.ExpectWindowCount {
			return count, outcomeExpectationFailed,
				fmt.Errorf("window count is %d, want %d", count, *step.ExpectWindowCount)
		}
		return count, OutcomeOK, nil

	default:
		return nil, outcomeError, fmt.Errorf("unhandled step kind %q", kind)
	}
}

// settle maps a bridge call's outcome to its completion fields.
// Operation errors carry their protocol code; anything else is a
// transport or timeout failure.
func settle(value any, err error) (any, string, error) {
	if err == nil {
		return value, OutcomeOK, nil
	}
	var opErr *ops.Error
	if errors.As(err, &opErr) {
		return nil, string(opErr.Code), err
	}
	return nil, outcomeError, err
}

// windowIndex normalizes the optional 1-based window field.
func windowIndex(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// windowAt resolves a 1-based window index against the application's
// current windows.
func windowAt(app driver.App, n int) (driver.Window, error) {
	idx := windowIndex(n)
	windows := app.Windows()
	if idx > len(windows) {
		return nil, fmt.Errorf("window %d does not exist, application has %d", idx, len(windows))
	}
	return windows[idx-1], nil
}
