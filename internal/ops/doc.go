// Package ops defines the wire protocol for cross-process bridge calls.
//
// The harness cannot ship a closure into the application's processes,
// so every bridge call is a Descriptor: an enumerated operation kind
// plus structurally copyable arguments. A small dispatcher inside the
// target process interprets the descriptor and answers with a Result.
// No live object reference survives the crossing in either direction.
package ops
