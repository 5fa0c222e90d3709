// Package harness executes scenario files against a running
// application and records a deterministic event trace.
//
// A scenario is a YAML document naming a build to launch, an ordered
// list of steps (menu clicks, ipc messages, probe waits, title and
// window-count expectations), and trace assertions evaluated after the
// steps complete. Scenarios are validated against an embedded CUE
// schema before execution, so malformed files fail before anything is
// launched.
//
// The trace is serialized as canonical JSON (sorted keys, NFC strings,
// no floats) so that two runs of the same scenario against the same
// build produce byte-identical output. Golden-file comparison and the
// replay determinism check both rely on that property.
package harness
