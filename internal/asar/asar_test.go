package asar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceagetv/electron-playwright-example/internal/testutil"
)

func writeTestArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.asar")
	require.NoError(t, testutil.WriteArchive(path, entries))
	return path
}

func TestExtractEntry_TopLevel(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"package.json": []byte(`{"main":"index.js","name":"demo"}`),
		"index.js":     []byte(`console.log("hi")`),
	})

	data, err := ExtractEntry(path, "package.json")
	require.NoError(t, err)
	assert.Equal(t, `{"main":"index.js","name":"demo"}`, string(data))

	data, err = ExtractEntry(path, "index.js")
	require.NoError(t, err)
	assert.Equal(t, `console.log("hi")`, string(data))
}

func TestExtractEntry_Nested(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"dist/main/index.js": []byte("module.exports = 1"),
		"package.json":       []byte("{}"),
	})

	data, err := ExtractEntry(path, "dist/main/index.js")
	require.NoError(t, err)
	assert.Equal(t, "module.exports = 1", string(data))
}

func TestExtractEntry_EmptyEntry(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"empty.txt": {},
		"other.txt": []byte("x"),
	})

	data, err := ExtractEntry(path, "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExtractEntry_NotFound(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"package.json": []byte("{}"),
	})

	_, err := ExtractEntry(path, "missing.js")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var ae *ArchiveError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeEntryNotFound, ae.Code)
	assert.Equal(t, "missing.js", ae.Entry)
}

func TestExtractEntry_DirectoryIsNotAnEntry(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"dist/index.js": []byte("x"),
	})

	_, err := ExtractEntry(path, "dist")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestExtractEntry_MissingArchive(t *testing.T) {
	_, err := ExtractEntry(filepath.Join(t.TempDir(), "nope.asar"), "package.json")
	require.Error(t, err)

	var ae *ArchiveError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeOpen, ae.Code)
	assert.False(t, IsNotFound(err))
}

func TestExtractEntry_CorruptPreamble(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.asar")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an asar file"), 0o644))

	_, err := ExtractEntry(path, "package.json")
	require.Error(t, err)

	var ae *ArchiveError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeHeader, ae.Code)
}

func TestListEntries_SortedAndRecursive(t *testing.T) {
	path := writeTestArchive(t, map[string][]byte{
		"zeta.js":       []byte("z"),
		"alpha.js":      []byte("a"),
		"dist/index.js": []byte("i"),
	})

	names, err := ListEntries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.js", "dist/index.js", "zeta.js"}, names)
}
