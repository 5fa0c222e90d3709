package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaceagetv/electron-playwright-example/internal/testutil"
)

// Shared synthetic-build fixtures. Each helper creates one build
// directory under root, shaped like real packager output for its
// platform, and returns the build directory path.

const testManifest = `{"name":"clicky","main":"index.js","version":"1.2.3"}`

func makeDarwinBuild(t *testing.T, root, dirName string, packed bool) string {
	t.Helper()
	build := filepath.Join(root, dirName)
	app := filepath.Join(build, "clicky.app")
	macOS := filepath.Join(app, "Contents", "MacOS")
	resources := filepath.Join(app, "Contents", "Resources")
	require.NoError(t, os.MkdirAll(macOS, 0o755))
	require.NoError(t, os.MkdirAll(resources, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(macOS, "clicky"), []byte("binary"), 0o755))
	writeAppSources(t, resources, packed)
	return build
}

func makeWindowsBuild(t *testing.T, root, dirName string, packed bool) string {
	t.Helper()
	build := filepath.Join(root, dirName)
	resources := filepath.Join(build, "resources")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "clicky.exe"), []byte("binary"), 0o644))
	writeAppSources(t, resources, packed)
	return build
}

func makeLinuxBuild(t *testing.T, root, dirName string, packed bool) string {
	t.Helper()
	build := filepath.Join(root, dirName)
	resources := filepath.Join(build, "resources")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "clicky"), []byte("binary"), 0o755))
	writeAppSources(t, resources, packed)
	return build
}

func writeAppSources(t *testing.T, resources string, packed bool) {
	t.Helper()
	if packed {
		require.NoError(t, testutil.WriteArchive(filepath.Join(resources, "app.asar"), map[string][]byte{
			"package.json": []byte(testManifest),
			"index.js":     []byte("// entry"),
		}))
		return
	}
	app := filepath.Join(resources, "app")
	require.NoError(t, os.MkdirAll(app, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app, "package.json"), []byte(testManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(app, "index.js"), []byte("// entry"), 0o644))
}
