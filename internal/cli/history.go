package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	Limit   int
	RunID   string
}

// RunHistory is the JSON payload for a single run with its events.
type RunHistory struct {
	journal.Run
	Events []journal.Event `json:"events"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled smoke test runs",
		Long: `List the runs recorded in a journal, newest first, or the stage events
of one run with --run.

Example:
  pipesmoke history --journal smoke.db
  pipesmoke history --journal smoke.db --run 01939b3e-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal (default: settings journal)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the stage events of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	path := opts.Journal
	if path == "" {
		s, err := loadSettings(opts.RootOptions)
		if err != nil {
			return err
		}
		path = s.Abs(s.Journal)
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no journal configured: pass --journal or set journal in the settings")
	}

	j, err := journal.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.RunID != "" {
		return showRun(ctx, j, opts, formatter, cmd)
	}

	runs, err := j.Runs(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if opts.Format == "json" {
		if runs == nil {
			runs = []journal.Run{}
		}
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tOUTCOME\tMODE\tCONFIG")
	for _, r := range runs {
		mode := "custom"
		if r.TestMode {
			mode = "fixture"
		}
		outcome := r.Outcome
		if outcome == "" {
			outcome = "RUNNING"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, outcome, mode, r.ConfigPath)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, j *journal.Journal, opts *HistoryOptions, f *OutputFormatter, cmd *cobra.Command) error {
	run, err := j.Run(ctx, opts.RunID)
	if errors.Is(err, journal.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, "unknown run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	events, err := j.Events(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if opts.Format == "json" {
		return f.Success(RunHistory{Run: run, Events: events})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s  %s  %s\n", run.ID, run.Outcome, run.ConfigPath)
	for _, e := range events {
		line := fmt.Sprintf("%3d  %s", e.Seq, e.Stage)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Fprintln(out, line)
	}
	if run.Error != "" {
		fmt.Fprintf(out, "error: %s\n", run.Error)
	}
	return nil
}
