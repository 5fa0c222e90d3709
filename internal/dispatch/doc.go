// Package dispatch interprets bridge operation descriptors inside an
// application process.
//
// Main models the privileged process: the menu tree, the ipcMain
// listener/handler registries, the window manager, and the named
// boolean probes the polling synchronizer evaluates. Renderer models
// one window's process, including the isolation gate that decides
// whether direct ipcRenderer access is permitted.
//
// A dispatcher never sees closures from the test side, only
// ops.Descriptor values, and answers with ops.Result values, keeping
// both directions of the crossing structurally copyable.
package dispatch
