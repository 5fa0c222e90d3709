package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/bundle"
)

// InspectResult is the inspect command's payload.
type InspectResult struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Platform     string `json:"platform"`
	Arch         string `json:"arch,omitempty"`
	Packed       bool   `json:"packed"`
	Executable   string `json:"executable"`
	Main         string `json:"main"`
	ResourcesDir string `json:"resources_dir"`
	AsarPath     string `json:"asar_path,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <build-dir>",
		Short: "Introspect a packaged build directory",
		Long: `Parse a packager output directory (or a .app bundle / .exe path) and
print what the harness would launch: the executable, the entry point,
and whether the application sources are packed into an archive.

Examples:
  e2eharness inspect ./out/clicky-darwin-arm64
  e2eharness inspect ./out/clicky-win32-x64 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, cmd, args[0])
		},
	}
}

func runInspect(rootOpts *RootOptions, cmd *cobra.Command, buildDir string) error {
	f := newFormatter(rootOpts, cmd)

	info, err := bundle.ParseApp(buildDir)
	if err != nil {
		_ = f.Error(bundleErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "inspect build", err)
	}

	result := InspectResult{
		Name:         info.Name,
		Version:      info.Version,
		Platform:     string(info.Platform),
		Arch:         string(info.Arch),
		Packed:       info.Packed,
		Executable:   info.Executable,
		Main:         info.Main,
		ResourcesDir: info.ResourcesDir,
		AsarPath:     info.AsarPath,
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s %s (%s", result.Name, result.Version, result.Platform)
	if result.Arch != "" {
		fmt.Fprintf(&text, "/%s", result.Arch)
	}
	text.WriteString(")\n")
	fmt.Fprintf(&text, "executable: %s\n", result.Executable)
	fmt.Fprintf(&text, "main:       %s\n", result.Main)
	fmt.Fprintf(&text, "resources:  %s\n", result.ResourcesDir)
	if result.Packed {
		fmt.Fprintf(&text, "packed:     %s", result.AsarPath)
	} else {
		text.WriteString("packed:     no")
	}
	return f.SuccessText(text.String(), result)
}
