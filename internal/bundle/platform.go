package bundle

import "strings"

// Platform identifies the operating system a build targets. Values
// match Node's process.platform vocabulary.
type Platform string

const (
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "win32"
	PlatformLinux   Platform = "linux"
	PlatformUnknown Platform = ""
)

// Arch identifies the CPU architecture a build targets.
type Arch string

const (
	ArchX86     Arch = "x86"
	ArchX64     Arch = "x64"
	ArchARM64   Arch = "arm64"
	ArchUnknown Arch = ""
)

// Token vocabularies for inferring platform and architecture from
// packager-generated directory names. The sets are checked in a fixed
// order; macOS must be tested before Windows because "darwin" contains
// the Windows token "win".
var (
	darwinTokens  = []string{"darwin", "macos", "mac", "osx"}
	windowsTokens = []string{"win32", "windows", "win"}
	linuxTokens   = []string{"linux", "ubuntu"}

	arm64Tokens = []string{"arm64", "aarch64"}
	x64Tokens   = []string{"x64", "x86_64", "x86-64", "amd64"}
	x86Tokens   = []string{"ia32", "x32", "x86"}
)

// inferPlatform maps a lowercased directory base name onto a Platform.
// First matching token set wins; no match returns PlatformUnknown.
func inferPlatform(name string) Platform {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, darwinTokens):
		return PlatformDarwin
	case containsAny(name, windowsTokens):
		return PlatformWindows
	case containsAny(name, linuxTokens):
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

// inferArch maps a lowercased directory base name onto an Arch.
// 64-bit token sets are tested before 32-bit ones so that "x86_64"
// does not match the 32-bit token "x86". No match is non-fatal and
// returns ArchUnknown.
func inferArch(name string) Arch {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, arm64Tokens):
		return ArchARM64
	case containsAny(name, x64Tokens):
		return ArchX64
	case containsAny(name, x86Tokens):
		return ArchX86
	default:
		return ArchUnknown
	}
}

// hasPlatformToken reports whether a directory name contains any token
// from any platform vocabulary. Used as the Build Locator's validity
// predicate.
func hasPlatformToken(name string) bool {
	return inferPlatform(name) != PlatformUnknown
}

func containsAny(name string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}
