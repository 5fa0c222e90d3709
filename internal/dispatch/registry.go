package dispatch

import (
	"fmt"
	"sync"

	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

// Listener is a fire-and-forget message receiver (ipcMain.on).
type Listener func(args ...any)

// Handler is a request/reply message handler (ipcMain.handle).
type Handler func(args ...any) (any, error)

// MainRegistry models the main process's ipc surface: listeners keyed
// by channel for the send/receive style and handlers keyed by channel
// for the invoke/handle style.
//
// Thread-safety: registration and delivery take an internal mutex, but
// listener and handler bodies run outside it so they may re-enter the
// registry (a handler creating a window that registers more listeners
// is fine).
type MainRegistry struct {
	mu        sync.Mutex
	listeners map[string][]Listener
	handlers  map[string][]Handler
}

// NewMainRegistry creates an empty registry.
func NewMainRegistry() *MainRegistry {
	return &MainRegistry{
		listeners: make(map[string][]Listener),
		handlers:  make(map[string][]Handler),
	}
}

// On registers a fire-and-forget listener for channel.
func (r *MainRegistry) On(channel string, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[channel] = append(r.listeners[channel], l)
}

// Handle registers a request/reply handler for channel.
func (r *MainRegistry) Handle(channel string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[channel] = append(r.handlers[channel], h)
}

// Emit synthesizes receipt of a message on channel, invoking every
// registered listener synchronously in registration order. It returns
// whether any listener was registered; zero listeners is not an error.
func (r *MainRegistry) Emit(channel string, args ...any) bool {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners[channel]))
	copy(listeners, r.listeners[channel])
	r.mu.Unlock()

	for _, l := range listeners {
		l(args...)
	}
	return len(listeners) > 0
}

// InvokeFirst invokes the first registered handler for channel and
// returns its result. Fails with NO_LISTENER when none is registered.
func (r *MainRegistry) InvokeFirst(channel string, args ...any) (any, error) {
	r.mu.Lock()
	var first Handler
	if hs := r.handlers[channel]; len(hs) > 0 {
		first = hs[0]
	}
	r.mu.Unlock()

	if first == nil {
		return nil, &ops.Error{Code: ops.ErrCodeNoListener, Message: fmt.Sprintf("no handler registered for channel %q", channel)}
	}
	return first(args...)
}
