// Package asar reads Electron's asar archive container.
//
// An asar file is a read-only package: a pickle-framed JSON header that
// maps entry names to byte offsets and sizes, followed by the
// concatenated entry payloads. The header is self-describing, so a
// single named entry can be extracted with one header parse and one
// seek, with no temp directory and no full unpack.
//
// The reader is deliberately stateless: every call opens the archive,
// parses the header, and reads the requested range. Test runs are
// short-lived, so simplicity wins over caching.
package asar
