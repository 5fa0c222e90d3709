package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceagetv/electron-playwright-example/internal/bundle"
	"github.com/spaceagetv/electron-playwright-example/internal/poll"
	"github.com/spaceagetv/electron-playwright-example/internal/simapp"
	"github.com/spaceagetv/electron-playwright-example/internal/testutil"
)

// fakeExecutable creates a file for the simulated driver to stat.
func fakeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clicky")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func newTestRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()
	opts = append([]RunnerOption{
		WithWaitTimeout(time.Second),
		WithPollOptions(poll.WithInterval(time.Millisecond)),
	}, opts...)
	return NewRunner(simapp.NewDriver(), opts...)
}

func secondWindowScenario(t *testing.T) *Scenario {
	t.Helper()
	count := 2
	return &Scenario{
		Name:         "second-window-flow",
		SessionToken: "golden-session",
		Launch: Launch{
			Executable: fakeExecutable(t),
			DirectIPC:  true,
		},
		Steps: []Step{
			{ExpectTitle: &TitleExpectation{Window: 1, Equals: "Window 1"}},
			{IPCSend: &IPCStep{Channel: "new-window"}},
			{WaitFor: "second-window-open"},
			{ExpectWindowCount: &count},
			{ExpectTitle: &TitleExpectation{Window: 2, Equals: "Window 2"}},
			{IPCInvoke: &IPCStep{Window: 1, Channel: "synchronous-message", Args: []any{"ping"}}},
		},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Op: StepIPCSend, Target: "new-window"},
			{Type: AssertTraceOrder, Ops: []string{StepIPCSend, StepWaitFor, StepExpectWindowCount}},
			{Type: AssertTraceCount, Op: StepExpectTitle, Count: 2},
		},
	}
}

func TestRunSecondWindowFlow(t *testing.T) {
	runner := newTestRunner(t)
	result, err := runner.Run(context.Background(), secondWindowScenario(t))
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "golden-session", result.SessionToken)
	require.Len(t, result.Trace, 12)

	// Calls and completions alternate with contiguous sequence numbers.
	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
		if i%2 == 0 {
			assert.Equal(t, EventCall, event.Type)
		} else {
			assert.Equal(t, EventCompletion, event.Type)
			assert.Equal(t, OutcomeOK, event.Outcome)
		}
	}

	assert.Equal(t, "pong: ping", result.Trace[11].Value)
	assert.Equal(t, 2, result.Trace[7].Value)
}

func TestRunSecondWindowFlowGolden(t *testing.T) {
	runner := newTestRunner(t)
	RunWithGolden(t, runner, secondWindowScenario(t))
}

func TestRunDeterministicTrace(t *testing.T) {
	scenario := secondWindowScenario(t)

	first, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)
	second, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	firstJSON, err := CanonicalTrace(scenario.Name, first)
	require.NoError(t, err)
	secondJSON, err := CanonicalTrace(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestRunGeneratesSessionToken(t *testing.T) {
	scenario := secondWindowScenario(t)
	scenario.SessionToken = ""

	runner := newTestRunner(t, WithTokenGenerator(testutil.NewFixedTokenGenerator("generated-token")))
	result, err := runner.Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, "generated-token", result.SessionToken)
}

func TestRunExpectationFailure(t *testing.T) {
	scenario := secondWindowScenario(t)
	scenario.Steps[0].ExpectTitle.Equals = "Main Window"

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], `title is "Window 1"`)
	assert.Equal(t, outcomeExpectationFailed, result.Trace[1].Outcome)
	assert.Equal(t, "Window 1", result.Trace[1].Value)

	// Later steps still ran.
	assert.Len(t, result.Trace, 12)
}

func TestRunOperationErrorRecordsCode(t *testing.T) {
	scenario := &Scenario{
		Name:   "missing-menu-item",
		Launch: Launch{Executable: fakeExecutable(t)},
		Steps:  []Step{{ClickMenu: "no-such-item"}},
	}

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "MENU_ITEM_NOT_FOUND", result.Trace[1].Outcome)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 1 (click_menu)")
}

func TestRunHardenedRendererDenied(t *testing.T) {
	scenario := secondWindowScenario(t)
	scenario.Launch.DirectIPC = false
	scenario.Steps = scenario.Steps[:2] // expect_title then ipc_send
	scenario.Assertions = nil

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, "IPC_DENIED", result.Trace[3].Outcome)
}

func TestRunWindowOutOfRange(t *testing.T) {
	scenario := &Scenario{
		Name:   "window-out-of-range",
		Launch: Launch{Executable: fakeExecutable(t)},
		Steps:  []Step{{ExpectTitle: &TitleExpectation{Window: 5, Equals: "Window 5"}}},
	}

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, outcomeError, result.Trace[1].Outcome)
	assert.Contains(t, result.Errors[0], "window 5 does not exist")
}

func TestRunLaunchFailure(t *testing.T) {
	scenario := &Scenario{
		Name:   "missing-executable",
		Launch: Launch{Executable: filepath.Join(t.TempDir(), "absent")},
		Steps:  []Step{{ClickMenu: "new-window"}},
	}

	_, err := newTestRunner(t).Run(context.Background(), scenario)
	require.Error(t, err)
}

func TestRunResolvesLatestBuild(t *testing.T) {
	root := t.TempDir()
	old := filepath.Join(root, "clicky-linux-x64-old")
	current := filepath.Join(root, "clicky-linux-x64")
	for _, dir := range []string{old, current} {
		resources := filepath.Join(dir, "resources", "app")
		require.NoError(t, os.MkdirAll(resources, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(resources, "package.json"),
			[]byte(`{"name":"clicky","main":"index.js","version":"1.2.3"}`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(resources, "index.js"), []byte("// app\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "clicky"), []byte("#!/bin/sh\n"), 0o755))
	}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	scenario := &Scenario{
		Name:   "latest-build",
		Launch: Launch{BuildRoot: root},
		Steps:  []Step{{ClickMenu: "new-window"}},
	}

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	// The resolved executable must come from the newer build.
	info, err := bundle.ParseApp(current)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(current, "clicky"), info.Executable)
}

func TestRunMainProcessSteps(t *testing.T) {
	count := 3
	scenario := &Scenario{
		Name:   "main-process-steps",
		Launch: Launch{Executable: fakeExecutable(t)},
		Steps: []Step{
			{WaitWindow: true},
			{MenuAttribute: &MenuAttributeStep{ID: "new-window", Attribute: "label"}},
			{ClickMenu: "new-window"},
			{WaitWindow: true},
			{IPCEmit: &IPCStep{Channel: "new-window"}},
			{IPCEmit: &IPCStep{Channel: "unbound-channel"}},
			{IPCInvokeMain: &IPCStep{Channel: "synchronous-message"}},
			{ExpectWindowCount: &count},
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), scenario)
	require.NoError(t, err)

	// Three windows: the launch window, the menu click, and the
	// delivered emit. The unbound emit creates none.
	assert.True(t, result.Passed)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "Window 1", result.Trace[1].Value)
	assert.Equal(t, "New Window", result.Trace[3].Value)
	assert.Equal(t, "Window 2", result.Trace[7].Value)
	assert.Equal(t, true, result.Trace[9].Value)
	assert.Equal(t, false, result.Trace[11].Value)
	assert.Equal(t, "pong", result.Trace[13].Value)
}

type memoryRecorder struct {
	sessions map[string]string
	events   []TraceEvent
}

func (m *memoryRecorder) BeginSession(_ context.Context, token, scenario string) error {
	if m.sessions == nil {
		m.sessions = make(map[string]string)
	}
	m.sessions[token] = scenario
	return nil
}

func (m *memoryRecorder) RecordEvent(_ context.Context, _ string, e TraceEvent) error {
	m.events = append(m.events, e)
	return nil
}

func TestRunRecordsEvents(t *testing.T) {
	recorder := &memoryRecorder{}
	runner := newTestRunner(t, WithRecorder(recorder))

	scenario := secondWindowScenario(t)
	result, err := runner.Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, "second-window-flow", recorder.sessions["golden-session"])
	assert.Equal(t, result.Trace, recorder.events)
}
