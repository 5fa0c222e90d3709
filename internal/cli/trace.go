package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
	"github.com/spaceagetv/electron-playwright-example/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
}

// TraceResult is the trace command's payload for one session.
type TraceResult struct {
	Session string               `json:"session"`
	Events  []harness.TraceEvent `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded sessions and their traces",
		Long: `With --session, print every trace event recorded for that session in
execution order. Without it, list all recorded sessions.

Examples:
  e2eharness trace --db traces.db
  e2eharness trace --db traces.db --session golden-session
  e2eharness trace --db traces.db --session golden-session --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to dump")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := store.Open(opts.Database)
	if err != nil {
		_ = f.Error("STORE_OPEN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "open trace store", err)
	}
	defer s.Close()

	if opts.Session == "" {
		sessions, err := s.ListSessions(cmd.Context())
		if err != nil {
			_ = f.Error("STORE_READ", err.Error(), nil)
			return WrapExitError(ExitCommandError, "list sessions", err)
		}
		var text strings.Builder
		for i, session := range sessions {
			if i > 0 {
				text.WriteByte('\n')
			}
			fmt.Fprintf(&text, "%s  %s  %s", session.StartedAt, session.Token, session.Scenario)
		}
		if len(sessions) == 0 {
			text.WriteString("no sessions recorded")
		}
		return f.SuccessText(text.String(), sessions)
	}

	events, err := s.ReadSession(cmd.Context(), opts.Session)
	if err != nil {
		_ = f.Error("STORE_READ", err.Error(), nil)
		return WrapExitError(ExitCommandError, "read session", err)
	}

	var text strings.Builder
	for i, e := range events {
		if i > 0 {
			text.WriteByte('\n')
		}
		fmt.Fprintf(&text, "[%d] %s %s", e.Seq, e.Type, e.Op)
		if e.Target != "" {
			fmt.Fprintf(&text, " %s", e.Target)
		}
		if e.Window != 0 {
			fmt.Fprintf(&text, " window=%d", e.Window)
		}
		if e.Outcome != "" {
			fmt.Fprintf(&text, " outcome=%s", e.Outcome)
		}
		if e.Value != nil {
			fmt.Fprintf(&text, " value=%v", e.Value)
		}
	}
	return f.SuccessText(text.String(), TraceResult{Session: opts.Session, Events: events})
}
