package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/bundle"
)

// LatestResult is the latest command's payload.
type LatestResult struct {
	Path     string `json:"path"`
	Platform string `json:"platform"`
	ModTime  string `json:"mod_time"`
}

// NewLatestCommand creates the latest command.
func NewLatestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <output-root>",
		Short: "Find the most recently built package under an output root",
		Long: `Scan a packager output root for build directories with a recognizable
platform token and print the most recently modified one. Ties are broken
by the lexicographically last directory name.

Examples:
  e2eharness latest ./out
  e2eharness latest ./out --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatest(rootOpts, cmd, args[0])
		},
	}
}

func runLatest(rootOpts *RootOptions, cmd *cobra.Command, root string) error {
	f := newFormatter(rootOpts, cmd)

	build, err := bundle.FindLatestBuild(root)
	if err != nil {
		_ = f.Error(bundleErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "no build found", err)
	}

	result := LatestResult{
		Path:     build.Path,
		Platform: string(build.Platform),
		ModTime:  build.ModTime.UTC().Format(time.RFC3339),
	}
	text := fmt.Sprintf("%s\nplatform: %s\nmodified: %s", result.Path, result.Platform, result.ModTime)
	return f.SuccessText(text, result)
}

// bundleErrorCode surfaces the package-level error code for output.
func bundleErrorCode(err error) string {
	var bundleErr *bundle.Error
	if errors.As(err, &bundleErr) {
		return string(bundleErr.Code)
	}
	return "ERROR"
}
