package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
	"github.com/spaceagetv/electron-playwright-example/internal/simapp"
	"github.com/spaceagetv/electron-playwright-example/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database    string
	WaitTimeout time.Duration
}

// RunResult is the run command's payload.
type RunResult struct {
	Scenario     string               `json:"scenario"`
	Passed       bool                 `json:"passed"`
	SessionToken string               `json:"session_token"`
	Events       int                  `json:"events"`
	Errors       []string             `json:"errors,omitempty"`
	Trace        []harness.TraceEvent `json:"trace,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario against the simulated application",
		Long: `Load a scenario file, launch the application it names with the built-in
simulated driver, execute its steps, and evaluate its assertions. With
--db the full trace is also recorded as a session for later inspection.

A real application driver is wired by embedding the harness library;
the CLI ships the simulated driver for scenario development.

Examples:
  e2eharness run scenarios/second-window.yaml
  e2eharness run scenarios/second-window.yaml --db traces.db
  e2eharness run scenarios/second-window.yaml --format json --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the trace to this SQLite database")
	cmd.Flags().DurationVar(&opts.WaitTimeout, "wait-timeout", harness.DefaultWaitTimeout,
		"timeout for each wait_for and wait_window step")

	return cmd
}

func runRun(opts *RunOptions, cmd *cobra.Command, file string) error {
	f := newFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		_ = f.Error("INVALID_SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	runnerOpts := []harness.RunnerOption{
		harness.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())),
		harness.WithWaitTimeout(opts.WaitTimeout),
	}
	if opts.Database != "" {
		s, err := store.Open(opts.Database)
		if err != nil {
			_ = f.Error("STORE_OPEN", err.Error(), nil)
			return WrapExitError(ExitCommandError, "open trace store", err)
		}
		defer s.Close()
		runnerOpts = append(runnerOpts, harness.WithRecorder(s))
	}

	runner := harness.NewRunner(simapp.NewDriver(), runnerOpts...)
	result, err := runner.Run(cmd.Context(), scenario)
	if err != nil {
		_ = f.Error("RUN_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	payload := RunResult{
		Scenario:     scenario.Name,
		Passed:       result.Passed,
		SessionToken: result.SessionToken,
		Events:       len(result.Trace),
		Errors:       result.Errors,
	}
	if opts.Verbose {
		payload.Trace = result.Trace
	}

	var text strings.Builder
	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(&text, "%s %s (session %s, %d events)", status, scenario.Name, result.SessionToken, len(result.Trace))
	for _, msg := range result.Errors {
		fmt.Fprintf(&text, "\n  %s", msg)
	}

	if err := f.SuccessText(text.String(), payload); err != nil {
		return err
	}
	if !result.Passed {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}
