package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaceagetv/electron-playwright-example/internal/asar"
)

// manifestEntry is the manifest's name inside an app directory or asar
// archive.
const manifestEntry = "package.json"

// asarName is the archive file packagers place in the resources
// directory when the app is packed.
const asarName = "app.asar"

// AppInfo is the resolved description of one packaged build. It is
// created once per ParseApp call and immutable thereafter.
//
// Executable and Main are always absolute. When Packed is true, Main is
// an archive-internal virtual path of the form <asar-path>/<entry> and
// AsarPath names the archive; extract the entry with the asar package
// rather than reading Main from disk.
type AppInfo struct {
	// Executable is the path of the binary the automation driver should
	// launch.
	Executable string `json:"executable"`

	// Main is the application entry-module path declared by the
	// manifest, joined onto the app directory or archive virtual path.
	Main string `json:"main"`

	// Name is the manifest's declared display name.
	Name string `json:"name"`

	// Version is the manifest's declared version, if any.
	Version string `json:"version,omitempty"`

	// Packed reports whether the application sources live inside an
	// asar archive.
	Packed bool `json:"packed"`

	// Platform and Arch are inferred from the build directory's naming
	// conventions. Arch may be ArchUnknown; Platform never is.
	Platform Platform `json:"platform"`
	Arch     Arch     `json:"arch,omitempty"`

	// ResourcesDir is the platform-specific resources directory the
	// manifest was resolved from.
	ResourcesDir string `json:"resources_dir"`

	// AsarPath is the archive path when Packed, empty otherwise.
	AsarPath string `json:"asar_path,omitempty"`
}

// resolver is the per-platform resolution strategy. Each platform
// implements the same contract, so a platform the harness cannot
// handle is a missing resolver rather than a silent fallthrough in a
// conditional chain.
type resolver interface {
	// locateResourcesDir returns the directory holding app.asar or the
	// unpacked app/ tree.
	locateResourcesDir() (string, error)

	// locateExecutable returns the binary to launch. appName is the
	// manifest's display name; platforms that can identify the binary
	// structurally ignore it.
	locateExecutable(appName string) (string, error)
}

// ParseApp determines a build directory's target platform and
// architecture from naming conventions and filesystem shape, then
// resolves its executable, entry module, display name, and packing.
//
// The given path may also be the macOS .app bundle or the Windows .exe
// itself; the true build directory is then its parent.
//
// Fails with ErrCodeUnsupportedPlatform when the platform cannot be
// inferred and ErrCodeMalformedBundle when expected substructure is
// missing.
func ParseApp(buildDir string) (AppInfo, error) {
	dir, err := filepath.Abs(buildDir)
	if err != nil {
		return AppInfo{}, &Error{Code: ErrCodeMalformedBundle, Message: "cannot resolve build directory", Path: buildDir, Err: err}
	}

	var (
		platform Platform
		fixedApp string // .app bundle given directly
		fixedExe string // .exe given directly
	)
	switch {
	case strings.HasSuffix(strings.ToLower(dir), ".app"):
		platform = PlatformDarwin
		fixedApp = dir
		dir = filepath.Dir(dir)
	case strings.HasSuffix(strings.ToLower(dir), ".exe"):
		platform = PlatformWindows
		fixedExe = dir
		dir = filepath.Dir(dir)
	default:
		platform = inferPlatform(filepath.Base(dir))
		if platform == PlatformUnknown {
			return AppInfo{}, &Error{Code: ErrCodeUnsupportedPlatform, Message: "no platform token in directory name", Path: dir}
		}
	}

	r, err := newResolver(platform, dir, fixedApp, fixedExe)
	if err != nil {
		return AppInfo{}, err
	}

	resources, err := r.locateResourcesDir()
	if err != nil {
		return AppInfo{}, err
	}

	asarPath := filepath.Join(resources, asarName)
	packed := fileExists(asarPath)

	var (
		manifestBytes  []byte
		manifestSource string
	)
	if packed {
		manifestSource = asarPath + "/" + manifestEntry
		manifestBytes, err = asar.ExtractEntry(asarPath, manifestEntry)
		if err != nil {
			return AppInfo{}, &Error{Code: ErrCodeMalformedBundle, Message: "archive lacks a readable manifest", Path: asarPath, Err: err}
		}
	} else {
		manifestSource = filepath.Join(resources, "app", manifestEntry)
		manifestBytes, err = os.ReadFile(manifestSource)
		if err != nil {
			return AppInfo{}, &Error{Code: ErrCodeMalformedBundle, Message: "no manifest in unpacked app directory", Path: manifestSource, Err: err}
		}
	}

	manifest, err := parseManifest(manifestBytes, manifestSource)
	if err != nil {
		return AppInfo{}, err
	}

	executable, err := r.locateExecutable(manifest.Name)
	if err != nil {
		return AppInfo{}, err
	}

	info := AppInfo{
		Executable:   executable,
		Name:         manifest.Name,
		Version:      manifest.Version,
		Packed:       packed,
		Platform:     platform,
		Arch:         inferArch(filepath.Base(dir)),
		ResourcesDir: resources,
	}
	if packed {
		info.AsarPath = asarPath
		info.Main = filepath.Join(asarPath, manifest.Main)
	} else {
		info.Main = filepath.Join(resources, "app", manifest.Main)
	}
	return info, nil
}

// newResolver builds the resolution strategy for a platform. fixedApp
// and fixedExe carry a bundle or executable named directly by the
// caller, bypassing discovery.
func newResolver(platform Platform, buildDir, fixedApp, fixedExe string) (resolver, error) {
	switch platform {
	case PlatformDarwin:
		return newDarwinResolver(buildDir, fixedApp)
	case PlatformWindows:
		return &windowsResolver{buildDir: buildDir, executable: fixedExe}, nil
	case PlatformLinux:
		return &linuxResolver{buildDir: buildDir}, nil
	default:
		return nil, &Error{Code: ErrCodeUnsupportedPlatform, Message: fmt.Sprintf("no resolver for platform %q", platform), Path: buildDir}
	}
}

// darwinResolver resolves macOS .app bundles: the executable is the
// first file under Contents/MacOS, resources live in
// Contents/Resources.
type darwinResolver struct {
	bundle string
}

func newDarwinResolver(buildDir, fixedApp string) (*darwinResolver, error) {
	if fixedApp != "" {
		return &darwinResolver{bundle: fixedApp}, nil
	}
	bundle, err := singleEntryWithSuffix(buildDir, ".app")
	if err != nil {
		return nil, err
	}
	return &darwinResolver{bundle: bundle}, nil
}

func (r *darwinResolver) locateResourcesDir() (string, error) {
	resources := filepath.Join(r.bundle, "Contents", "Resources")
	if !dirExists(resources) {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "app bundle has no Contents/Resources", Path: r.bundle}
	}
	return resources, nil
}

func (r *darwinResolver) locateExecutable(string) (string, error) {
	macOS := filepath.Join(r.bundle, "Contents", "MacOS")
	entries, err := os.ReadDir(macOS)
	if err != nil {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "app bundle has no Contents/MacOS", Path: r.bundle, Err: err}
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return filepath.Join(macOS, entry.Name()), nil
		}
	}
	return "", &Error{Code: ErrCodeMalformedBundle, Message: "no executable under Contents/MacOS", Path: r.bundle}
}

// windowsResolver resolves portable Windows builds: a single .exe at
// the top of the build directory and a resources/ tree beside it.
type windowsResolver struct {
	buildDir   string
	executable string
}

func (r *windowsResolver) locateResourcesDir() (string, error) {
	resources := filepath.Join(r.buildDir, "resources")
	if !dirExists(resources) {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "build has no resources directory", Path: r.buildDir}
	}
	return resources, nil
}

func (r *windowsResolver) locateExecutable(string) (string, error) {
	if r.executable != "" {
		return r.executable, nil
	}
	return singleEntryWithSuffix(r.buildDir, ".exe")
}

// linuxResolver resolves electron-builder style Linux dir output: a
// resources/ tree and the application binary at the top of the build
// directory. The reference behavior left Linux unspecified; this
// mirrors the Windows layout, identifying the binary by its exec bit
// and preferring the one named after the app.
type linuxResolver struct {
	buildDir string
}

func (r *linuxResolver) locateResourcesDir() (string, error) {
	resources := filepath.Join(r.buildDir, "resources")
	if !dirExists(resources) {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "build has no resources directory", Path: r.buildDir}
	}
	return resources, nil
}

func (r *linuxResolver) locateExecutable(appName string) (string, error) {
	entries, err := os.ReadDir(r.buildDir)
	if err != nil {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "cannot read build directory", Path: r.buildDir, Err: err}
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		path := filepath.Join(r.buildDir, entry.Name())
		if entry.Name() == appName {
			return path, nil
		}
		candidates = append(candidates, path)
	}

	if len(candidates) != 1 {
		return "", &Error{
			Code:    ErrCodeMalformedBundle,
			Message: fmt.Sprintf("expected one executable at build root, found %d", len(candidates)),
			Path:    r.buildDir,
		}
	}
	return candidates[0], nil
}

// singleEntryWithSuffix returns the unique directory entry whose name
// ends with suffix (case-insensitive). Zero or multiple matches are a
// malformed bundle.
func singleEntryWithSuffix(dir, suffix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &Error{Code: ErrCodeMalformedBundle, Message: "cannot read build directory", Path: dir, Err: err}
	}
	var matches []string
	for _, entry := range entries {
		if strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	if len(matches) != 1 {
		return "", &Error{
			Code:    ErrCodeMalformedBundle,
			Message: fmt.Sprintf("expected one %s entry, found %d", suffix, len(matches)),
			Path:    dir,
		}
	}
	return matches[0], nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
