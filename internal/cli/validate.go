package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
)

// ValidationResult reports one scenario file's validation outcome.
type ValidationResult struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Parse each scenario file, check it against the scenario schema, and
report the first problem per file. All files are checked even when an
early one fails.

Examples:
  e2eharness validate scenarios/second-window.yaml
  e2eharness validate scenarios/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
}

func runValidate(rootOpts *RootOptions, cmd *cobra.Command, files []string) error {
	f := newFormatter(rootOpts, cmd)

	results := make([]ValidationResult, 0, len(files))
	failed := 0
	for _, file := range files {
		result := ValidationResult{File: file, Valid: true}
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			result.Valid = false
			result.Error = err.Error()
			failed++
		} else {
			result.Name = scenario.Name
		}
		results = append(results, result)
	}

	var text strings.Builder
	for i, r := range results {
		if i > 0 {
			text.WriteByte('\n')
		}
		if r.Valid {
			fmt.Fprintf(&text, "ok   %s (%s)", r.File, r.Name)
		} else {
			fmt.Fprintf(&text, "FAIL %s: %s", r.File, r.Error)
		}
	}

	if failed > 0 {
		if rootOpts.Format == "json" {
			_ = f.Error("INVALID_SCENARIO",
				fmt.Sprintf("%d of %d scenario files invalid", failed, len(files)), results)
		} else {
			fmt.Fprintln(f.Writer, text.String())
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario files invalid", failed, len(files)))
	}
	return f.SuccessText(text.String(), results)
}
