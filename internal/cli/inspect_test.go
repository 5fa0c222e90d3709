package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectUnpackedBuild(t *testing.T) {
	dir := makeLinuxBuild(t, t.TempDir(), "clicky-linux-x64")

	stdout, _, err := executeCommand(t, "inspect", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "clicky 1.2.3 (linux/x64)")
	assert.Contains(t, stdout, filepath.Join(dir, "clicky"))
	assert.Contains(t, stdout, "packed:     no")
}

func TestInspectJSONFormat(t *testing.T) {
	dir := makeLinuxBuild(t, t.TempDir(), "clicky-linux-x64")

	stdout, _, err := executeCommand(t, "--format", "json", "inspect", dir)
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result InspectResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "clicky", result.Name)
	assert.False(t, result.Packed)
	assert.Equal(t, filepath.Join(dir, "resources", "app", "index.js"), result.Main)
}

func TestInspectMissingBuild(t *testing.T) {
	stdout, _, err := executeCommand(t, "inspect", filepath.Join(t.TempDir(), "clicky-linux-x64"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "MALFORMED_BUNDLE")
}
