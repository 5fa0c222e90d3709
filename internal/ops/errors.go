package ops

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes bridge operation failures. Codes travel inside
// Result and are reconstructed as *Error on the test side, so callers
// match on the code rather than on message text.
type ErrorCode string

const (
	// ErrCodeMenuItemNotFound indicates no menu item has the requested id.
	ErrCodeMenuItemNotFound ErrorCode = "MENU_ITEM_NOT_FOUND"

	// ErrCodeNoListener indicates no handler is registered for the channel.
	ErrCodeNoListener ErrorCode = "NO_LISTENER"

	// ErrCodeIPCDenied indicates the window's execution context does not
	// permit direct access to the messaging primitive. Launch the app
	// with the relaxed-isolation test configuration to allow it.
	ErrCodeIPCDenied ErrorCode = "IPC_DENIED"

	// ErrCodeUnknownOp indicates the dispatcher does not understand the
	// descriptor's kind (or the kind is invalid in that process).
	ErrCodeUnknownOp ErrorCode = "UNKNOWN_OP"

	// ErrCodeUnknownProbe indicates no probe is registered under the
	// requested name.
	ErrCodeUnknownProbe ErrorCode = "UNKNOWN_PROBE"

	// ErrCodeBadArgs indicates the descriptor is missing a required
	// field or carries non-transmissible arguments.
	ErrCodeBadArgs ErrorCode = "BAD_ARGS"

	// ErrCodeDispatch is the catch-all for handler failures inside the
	// target process.
	ErrCodeDispatch ErrorCode = "DISPATCH_FAILED"
)

// Error is a bridge operation failure.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMenuItemNotFound reports whether err carries ErrCodeMenuItemNotFound.
func IsMenuItemNotFound(err error) bool {
	return hasCode(err, ErrCodeMenuItemNotFound)
}

// IsNoListener reports whether err carries ErrCodeNoListener.
func IsNoListener(err error) bool {
	return hasCode(err, ErrCodeNoListener)
}

// IsIPCDenied reports whether err carries ErrCodeIPCDenied.
func IsIPCDenied(err error) bool {
	return hasCode(err, ErrCodeIPCDenied)
}

func hasCode(err error, code ErrorCode) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Code == code
}
