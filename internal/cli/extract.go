package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spaceagetv/electron-playwright-example/internal/asar"
)

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	List bool
	Out  string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <archive> [entry]",
		Short: "Read entries from an application archive",
		Long: `Extract one entry from an app archive by its slash-separated path, or
list every entry with --list.

Examples:
  e2eharness extract app.asar package.json
  e2eharness extract app.asar src/index.js --out index.js
  e2eharness extract --list app.asar`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list entry paths instead of extracting")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the entry to this file instead of stdout")

	return cmd
}

func runExtract(opts *ExtractOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)
	archive := args[0]

	if opts.List {
		if len(args) > 1 {
			return NewExitError(ExitCommandError, "--list takes no entry argument")
		}
		entries, err := asar.ListEntries(archive)
		if err != nil {
			_ = f.Error(archiveErrorCode(err), err.Error(), nil)
			return WrapExitError(ExitCommandError, "list archive", err)
		}
		return f.SuccessText(strings.Join(entries, "\n"), entries)
	}

	if len(args) != 2 {
		return NewExitError(ExitCommandError, "extract requires an entry path (or --list)")
	}
	entry := args[1]

	data, err := asar.ExtractEntry(archive, entry)
	if err != nil {
		_ = f.Error(archiveErrorCode(err), err.Error(), nil)
		code := ExitCommandError
		if asar.IsNotFound(err) {
			code = ExitFailure
		}
		return WrapExitError(code, fmt.Sprintf("extract %s", entry), err)
	}

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write output file", err)
		}
		return f.SuccessText(fmt.Sprintf("wrote %d bytes to %s", len(data), opts.Out),
			map[string]any{"entry": entry, "bytes": len(data), "out": opts.Out})
	}

	// Raw entry bytes go straight to stdout so binary content survives.
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func archiveErrorCode(err error) string {
	var archiveErr *asar.ArchiveError
	if errors.As(err, &archiveErr) {
		return string(archiveErr.Code)
	}
	return "ERROR"
}
