package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRunnableScenario writes a scenario file whose launch block
// points at a real file for the simulated driver to stat.
func writeRunnableScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	exe := filepath.Join(dir, "clicky")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(body, exe)), 0o644))
	return path
}

const passingScenario = `name: second-window
session_token: cli-session
launch:
  executable: %s
  direct_ipc: true
steps:
  - expect_title:
      window: 1
      equals: Window 1
  - ipc_send:
      channel: new-window
  - wait_for: second-window-open
  - expect_window_count: 2
assertions:
  - type: trace_count
    op: expect_title
    count: 1
`

const failingScenario = `name: wrong-title
session_token: cli-session
launch:
  executable: %s
steps:
  - expect_title:
      window: 1
      equals: Main Window
`

func TestRunPassingScenario(t *testing.T) {
	file := writeRunnableScenario(t, passingScenario)

	stdout, _, err := executeCommand(t, "run", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "PASS second-window (session cli-session, 8 events)")
}

func TestRunFailingScenario(t *testing.T) {
	file := writeRunnableScenario(t, failingScenario)

	stdout, _, err := executeCommand(t, "run", file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "FAIL wrong-title")
	assert.Contains(t, stdout, `title is "Window 1"`)
}

func TestRunJSONFormat(t *testing.T) {
	file := writeRunnableScenario(t, passingScenario)

	stdout, _, err := executeCommand(t, "--format", "json", "run", file)
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result RunResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Passed)
	assert.Equal(t, "cli-session", result.SessionToken)
	assert.Equal(t, 8, result.Events)
}

func TestRunInvalidScenarioFile(t *testing.T) {
	_, _, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunRecordsToDatabase(t *testing.T) {
	file := writeRunnableScenario(t, passingScenario)
	db := filepath.Join(t.TempDir(), "traces.db")

	_, _, err := executeCommand(t, "run", file, "--db", db)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "cli-session")
	assert.Contains(t, stdout, "second-window")
}
