package bundle

import (
	"encoding/json"
	"fmt"
)

// Manifest is the read-only projection of an application's
// package.json used to populate AppInfo. Only the fields the harness
// needs are decoded.
type Manifest struct {
	// Name is the application display name. Required.
	Name string `json:"name"`

	// Main is the entry-module path, relative to the app directory or
	// archive root. Required.
	Main string `json:"main"`

	// Version is informational and may be empty.
	Version string `json:"version"`
}

// parseManifest decodes and validates manifest bytes. source names the
// file or archive entry for error context.
func parseManifest(data []byte, source string) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, &Error{Code: ErrCodeBadManifest, Message: "manifest is not valid JSON", Path: source, Err: err}
	}
	if m.Main == "" {
		return Manifest{}, &Error{Code: ErrCodeBadManifest, Message: fmt.Sprintf("manifest %s lacks required field %q", source, "main")}
	}
	if m.Name == "" {
		return Manifest{}, &Error{Code: ErrCodeBadManifest, Message: fmt.Sprintf("manifest %s lacks required field %q", source, "name")}
	}
	return m, nil
}
