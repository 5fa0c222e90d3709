// Package store persists scenario execution traces in SQLite.
//
// Each scenario run is one session keyed by its session token, with
// every trace event stored as a content-addressed row. Writes are
// idempotent: replaying the same session produces the same event ids,
// so re-recording an identical run is a no-op. The store backs the
// trace and replay CLI commands.
package store
