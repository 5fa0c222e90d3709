package dispatch

import (
	"sync"
	"sync/atomic"
)

// WindowState is the dispatcher's view of one renderer window.
type WindowState struct {
	// Index is the window's 1-based creation index, assigned by the
	// WindowManager's counter.
	Index int64

	mu    sync.Mutex
	title string
}

// Title returns the window's current title.
func (w *WindowState) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SetTitle updates the window's title.
func (w *WindowState) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

// WindowManager owns the process-wide window list and creation
// counter. The counter is an explicit atomic increment-and-read on
// this single owner, not an ambient global.
type WindowManager struct {
	counter atomic.Int64

	mu      sync.Mutex
	windows []*WindowState
}

// NewWindowManager creates an empty manager.
func NewWindowManager() *WindowManager {
	return &WindowManager{}
}

// Add creates a window with the next creation index and the given
// title, and returns its state.
func (m *WindowManager) Add(title string) *WindowState {
	w := &WindowState{Index: m.counter.Add(1), title: title}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = append(m.windows, w)
	return w
}

// Count returns how many windows have been created.
func (m *WindowManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// All returns the windows in creation order.
func (m *WindowManager) All() []*WindowState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*WindowState, len(m.windows))
	copy(out, m.windows)
	return out
}
