package asar

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes archive read failures.
type ErrorCode string

const (
	// ErrCodeOpen indicates the archive file could not be opened.
	ErrCodeOpen ErrorCode = "ARCHIVE_OPEN"

	// ErrCodeHeader indicates the pickle framing or JSON header is
	// malformed or truncated.
	ErrCodeHeader ErrorCode = "ARCHIVE_HEADER"

	// ErrCodeEntryNotFound indicates the named entry is absent (or is
	// a directory, or is stored unpacked outside the archive).
	ErrCodeEntryNotFound ErrorCode = "ENTRY_NOT_FOUND"
)

// ArchiveError is an archive read failure with structured context.
// Archive reads are deterministic, so callers should treat every code
// as permanent and never retry.
type ArchiveError struct {
	Code    ErrorCode
	Message string
	Archive string
	Entry   string
	Err     error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s: %s (archive=%s, entry=%s)", e.Code, e.Message, e.Archive, e.Entry)
	}
	return fmt.Sprintf("%s: %s (archive=%s)", e.Code, e.Message, e.Archive)
}

// Unwrap returns the underlying cause, if any.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an ArchiveError for an absent entry.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ae *ArchiveError
	return errors.As(err, &ae) && ae.Code == ErrCodeEntryNotFound
}
