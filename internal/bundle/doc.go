// Package bundle locates and introspects packaged Electron builds.
//
// A build output root contains one subdirectory per produced build,
// named with platform (and optionally architecture) tokens by the
// packager. FindLatestBuild picks "the build you just produced" from
// such a root without the caller knowing the exact folder name, which
// varies by packager version and target platform. ParseApp then
// resolves one build directory into an immutable AppInfo: executable
// path, entry module, display name, platform, architecture, and
// whether the application is packed into an asar archive.
//
// Platform-specific layout differences (macOS .app bundles, Windows
// resources/ trees, Linux electron-builder dirs) are isolated behind a
// small resolver strategy keyed by the Platform enum, so a missing
// platform is a missing resolver rather than a silent fallthrough.
package bundle
