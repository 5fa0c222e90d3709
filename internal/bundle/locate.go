package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BuildDirectory describes one candidate build found under an output
// root. It is discovered transiently per FindLatestBuild call and not
// persisted.
type BuildDirectory struct {
	// Path is the absolute path of the build directory.
	Path string

	// Platform is inferred from the directory name's platform token.
	Platform Platform

	// ModTime is the directory's last-modified timestamp, used to pick
	// the most recent build.
	ModTime time.Time
}

// FindLatestBuild returns the most recently modified valid build
// directory immediately under outputRoot.
//
// A subdirectory is valid when its name contains a platform token from
// the fixed vocabulary (win/windows/win32, darwin/mac/macos/osx,
// linux/ubuntu). Among valid candidates the greatest modification
// timestamp wins; ties are broken by the lexicographically last name so
// the result is stable and deterministic.
//
// Fails with ErrCodeNoBuildFound when outputRoot does not exist or no
// candidate qualifies.
func FindLatestBuild(outputRoot string) (BuildDirectory, error) {
	root, err := filepath.Abs(outputRoot)
	if err != nil {
		return BuildDirectory{}, &Error{Code: ErrCodeNoBuildFound, Message: "cannot resolve output root", Path: outputRoot, Err: err}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return BuildDirectory{}, &Error{Code: ErrCodeNoBuildFound, Message: "cannot read output root", Path: root, Err: err}
	}

	var latest BuildDirectory
	found := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !hasPlatformToken(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return BuildDirectory{}, &Error{Code: ErrCodeNoBuildFound, Message: fmt.Sprintf("cannot stat candidate %s", entry.Name()), Path: root, Err: err}
		}
		candidate := BuildDirectory{
			Path:     filepath.Join(root, entry.Name()),
			Platform: inferPlatform(entry.Name()),
			ModTime:  info.ModTime(),
		}
		if !found || newer(candidate, latest) {
			latest = candidate
			found = true
		}
	}

	if !found {
		return BuildDirectory{}, &Error{Code: ErrCodeNoBuildFound, Message: "no build directory with a recognizable platform token", Path: root}
	}
	return latest, nil
}

// newer reports whether a should replace b as the latest build:
// strictly greater mtime, or equal mtime with lexicographically
// greater path. ReadDir yields names in sorted order, so the tie rule
// keeps the last-sorted name.
func newer(a, b BuildDirectory) bool {
	if a.ModTime.After(b.ModTime) {
		return true
	}
	return a.ModTime.Equal(b.ModTime) && a.Path > b.Path
}
