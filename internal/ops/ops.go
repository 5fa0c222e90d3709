package ops

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind enumerates the operations a dispatcher understands.
type Kind string

const (
	// KindClickMenuItem activates the menu item with the given id in
	// the main process. Main-process only.
	KindClickMenuItem Kind = "click-menu-item"

	// KindMenuItemAttribute reads a named attribute from a menu item.
	// Main-process only.
	KindMenuItemAttribute Kind = "menu-item-attribute"

	// KindIPCRendererSend emits a fire-and-forget message from a
	// renderer, as if the window's code called ipcRenderer.send.
	KindIPCRendererSend Kind = "ipc-renderer-send"

	// KindIPCRendererInvoke sends a request expecting a single reply
	// from a renderer, as if the window's code called
	// ipcRenderer.invoke.
	KindIPCRendererInvoke Kind = "ipc-renderer-invoke"

	// KindIPCMainEmit synthesizes receipt of a message in the main
	// process, invoking all registered listeners synchronously. The
	// result value reports whether any listener was registered.
	KindIPCMainEmit Kind = "ipc-main-emit"

	// KindIPCMainInvokeFirst directly invokes the first registered
	// handler for a message in the main process and returns its result.
	KindIPCMainInvokeFirst Kind = "ipc-main-invoke-first"

	// KindWindowTitle reads a window's current title. Renderer only.
	KindWindowTitle Kind = "window-title"

	// KindWindowCount reads the number of windows the main process has
	// created. Main-process only.
	KindWindowCount Kind = "window-count"

	// KindEvalProbe evaluates a named boolean probe registered in the
	// main process. This is the polling synchronizer's round trip.
	KindEvalProbe Kind = "eval-probe"
)

// Descriptor is one bridge operation, serialized across the process
// boundary. Exactly the fields the Kind requires are set; everything
// is JSON-transmissible by construction.
type Descriptor struct {
	// Token correlates the descriptor with its Result and with trace
	// events recorded for the call.
	Token string `json:"token,omitempty"`

	Kind Kind `json:"kind"`

	// MenuItemID targets menu operations.
	MenuItemID string `json:"menu_item_id,omitempty"`

	// Attribute names the menu item attribute to read.
	Attribute string `json:"attribute,omitempty"`

	// Channel names the message for ipc operations.
	Channel string `json:"channel,omitempty"`

	// Probe names the boolean probe for eval-probe.
	Probe string `json:"probe,omitempty"`

	// Args are the message arguments. Structurally copyable data only.
	Args []any `json:"args,omitempty"`
}

// Validate checks that the descriptor names a known operation, carries
// the fields that operation requires, and that its arguments survive
// the process boundary. It fails with ErrCodeUnknownOp or
// ErrCodeBadArgs.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindClickMenuItem, KindMenuItemAttribute:
		if d.MenuItemID == "" {
			return &Error{Code: ErrCodeBadArgs, Message: fmt.Sprintf("%s requires a menu item id", d.Kind)}
		}
		if d.Kind == KindMenuItemAttribute && d.Attribute == "" {
			return &Error{Code: ErrCodeBadArgs, Message: "menu-item-attribute requires an attribute name"}
		}
	case KindIPCRendererSend, KindIPCRendererInvoke, KindIPCMainEmit, KindIPCMainInvokeFirst:
		if d.Channel == "" {
			return &Error{Code: ErrCodeBadArgs, Message: fmt.Sprintf("%s requires a channel", d.Kind)}
		}
	case KindEvalProbe:
		if d.Probe == "" {
			return &Error{Code: ErrCodeBadArgs, Message: "eval-probe requires a probe name"}
		}
	case KindWindowTitle, KindWindowCount:
		// No required fields.
	default:
		return &Error{Code: ErrCodeUnknownOp, Message: fmt.Sprintf("unknown operation kind %q", d.Kind)}
	}

	// Live references (funcs, channels, open handles) cannot cross the
	// boundary; JSON encodability is the transmissibility check.
	for i, arg := range d.Args {
		if _, err := json.Marshal(arg); err != nil {
			return &Error{Code: ErrCodeBadArgs, Message: fmt.Sprintf("arg %d is not transmissible: %v", i, err)}
		}
	}
	return nil
}

// Result is a dispatcher's answer to one Descriptor.
type Result struct {
	// Token echoes the descriptor's correlation token.
	Token string `json:"token,omitempty"`

	OK bool `json:"ok"`

	// Value is the operation's result when OK.
	Value any `json:"value,omitempty"`

	// ErrorCode and ErrorMessage describe the failure when not OK.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// OKResult builds a successful Result for token.
func OKResult(token string, value any) Result {
	return Result{Token: token, OK: true, Value: value}
}

// FailResult builds a failed Result for token. An *Error keeps its
// code; any other error is reported as ErrCodeDispatch.
func FailResult(token string, err error) Result {
	if oe, ok := err.(*Error); ok {
		return Result{Token: token, ErrorCode: string(oe.Code), ErrorMessage: oe.Message}
	}
	return Result{Token: token, ErrorCode: string(ErrCodeDispatch), ErrorMessage: err.Error()}
}

// Err converts a failed Result back into an *Error; it returns nil for
// a successful Result.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Code: ErrorCode(r.ErrorCode), Message: r.ErrorMessage}
}

// TokenGenerator produces correlation tokens for descriptors.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator is the production TokenGenerator.
type UUIDGenerator struct{}

// Generate returns a random UUIDv4 string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
