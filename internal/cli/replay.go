package cli

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
	"github.com/spaceagetv/electron-playwright-example/internal/simapp"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Times       int
	WaitTimeout time.Duration
}

// ReplayResult is the replay command's payload.
type ReplayResult struct {
	Scenario      string `json:"scenario"`
	Runs          int    `json:"runs"`
	Deterministic bool   `json:"deterministic"`
	DivergedAt    int    `json:"diverged_at,omitempty"` // 1-based run index
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Re-run a scenario and verify its trace is deterministic",
		Long: `Run a scenario several times with a fixed session token and compare the
canonical trace of every run byte for byte. Any divergence means the
scenario or the application behaves nondeterministically.

Examples:
  e2eharness replay scenarios/second-window.yaml --times 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Times, "times", 3, "number of runs to compare")
	cmd.Flags().DurationVar(&opts.WaitTimeout, "wait-timeout", harness.DefaultWaitTimeout,
		"timeout for each wait_for and wait_window step")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, file string) error {
	f := newFormatter(opts.RootOptions, cmd)

	if opts.Times < 2 {
		return NewExitError(ExitCommandError, "--times must be at least 2")
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		_ = f.Error("INVALID_SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}
	// A generated token would differ per run and mask real divergence.
	if scenario.SessionToken == "" {
		scenario.SessionToken = "replay-check"
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	var reference []byte
	divergedAt := 0
	for i := 0; i < opts.Times; i++ {
		runner := harness.NewRunner(simapp.NewDriver(),
			harness.WithLogger(logger),
			harness.WithWaitTimeout(opts.WaitTimeout))
		result, err := runner.Run(cmd.Context(), scenario)
		if err != nil {
			_ = f.Error("RUN_FAILED", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("run %d", i+1), err)
		}
		trace, err := harness.CanonicalTrace(scenario.Name, result)
		if err != nil {
			return WrapExitError(ExitCommandError, "canonicalize trace", err)
		}
		if i == 0 {
			reference = trace
			continue
		}
		if divergedAt == 0 && !bytes.Equal(reference, trace) {
			divergedAt = i + 1
		}
	}

	payload := ReplayResult{
		Scenario:      scenario.Name,
		Runs:          opts.Times,
		Deterministic: divergedAt == 0,
		DivergedAt:    divergedAt,
	}

	if divergedAt != 0 {
		if opts.Format == "json" {
			_ = f.Error("NONDETERMINISTIC",
				fmt.Sprintf("trace diverged on run %d of %d", divergedAt, opts.Times), payload)
		} else {
			fmt.Fprintf(f.Writer, "FAIL %s: trace diverged on run %d of %d\n",
				scenario.Name, divergedAt, opts.Times)
		}
		return NewExitError(ExitFailure, "nondeterministic trace")
	}

	text := fmt.Sprintf("PASS %s: %d identical runs", scenario.Name, opts.Times)
	return f.SuccessText(text, payload)
}
