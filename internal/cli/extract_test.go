package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceagetv/electron-playwright-example/internal/testutil"
)

func writeTestArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.asar")
	require.NoError(t, testutil.WriteArchive(path, map[string][]byte{
		"package.json": []byte(`{"name":"clicky","main":"index.js","version":"1.2.3"}`),
		"src/index.js": []byte("console.log('hi')\n"),
	}))
	return path
}

func TestExtractEntryToStdout(t *testing.T) {
	archive := writeTestArchive(t)

	stdout, _, err := executeCommand(t, "extract", archive, "src/index.js")
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')\n", stdout)
}

func TestExtractEntryToFile(t *testing.T) {
	archive := writeTestArchive(t)
	out := filepath.Join(t.TempDir(), "index.js")

	stdout, _, err := executeCommand(t, "extract", archive, "src/index.js", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 18 bytes")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')\n", string(data))
}

func TestExtractList(t *testing.T) {
	archive := writeTestArchive(t)

	stdout, _, err := executeCommand(t, "extract", "--list", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "package.json")
	assert.Contains(t, stdout, "src/index.js")
}

func TestExtractMissingEntry(t *testing.T) {
	archive := writeTestArchive(t)

	stdout, _, err := executeCommand(t, "extract", archive, "absent.js")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "ENTRY_NOT_FOUND")
}

func TestExtractMissingArchive(t *testing.T) {
	_, _, err := executeCommand(t, "extract", filepath.Join(t.TempDir(), "absent.asar"), "package.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExtractListRejectsEntryArgument(t *testing.T) {
	archive := writeTestArchive(t)
	_, _, err := executeCommand(t, "extract", "--list", archive, "package.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
