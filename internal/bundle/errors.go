package bundle

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes build location and introspection failures.
//
// All of these are structural: the on-disk build either has the
// expected shape or it does not. Retrying cannot help, so callers
// should fail the test step immediately.
type ErrorCode string

const (
	// ErrCodeNoBuildFound indicates the output root has no subdirectory
	// with a recognizable platform token (or does not exist).
	ErrCodeNoBuildFound ErrorCode = "NO_BUILD_FOUND"

	// ErrCodeUnsupportedPlatform indicates the build directory's name
	// and shape match no known platform.
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"

	// ErrCodeMalformedBundle indicates expected substructure (executable,
	// resources directory, manifest) is missing from the build.
	ErrCodeMalformedBundle ErrorCode = "MALFORMED_BUNDLE"

	// ErrCodeBadManifest indicates the application manifest exists but
	// cannot be parsed or lacks a required field.
	ErrCodeBadManifest ErrorCode = "BAD_MANIFEST"
)

// Error is a build location or introspection failure.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNoBuildFound reports whether err carries ErrCodeNoBuildFound.
func IsNoBuildFound(err error) bool {
	return hasCode(err, ErrCodeNoBuildFound)
}

// IsUnsupportedPlatform reports whether err carries ErrCodeUnsupportedPlatform.
func IsUnsupportedPlatform(err error) bool {
	return hasCode(err, ErrCodeUnsupportedPlatform)
}

// IsMalformedBundle reports whether err carries ErrCodeMalformedBundle.
func IsMalformedBundle(err error) bool {
	return hasCode(err, ErrCodeMalformedBundle)
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}
