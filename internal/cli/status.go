package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/expconfig"
	"github.com/roach88/pipesmoke/internal/harness"
	"github.com/roach88/pipesmoke/internal/report"
	"github.com/roach88/pipesmoke/internal/status"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Seed    string
	Pending bool
	Ready   bool
	Results bool
	NBest   int
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status [config]",
		Short: "Show experiment progress",
		Long: `Show how far an experiment has progressed: the preprocessing stage
folders, trained and evaluated epochs per seed, and the decoding checkpoint.

With --pending, list the checkpoints of --seed still waiting for evaluation
instead (--ready restricts the list to checkpoints already written).

With --results, rank the validation scores of every seed and show the best
epoch and the averaged top-5 beam 10 score.

Example:
  pipesmoke status configs/wiki25.sh
  pipesmoke status configs/wiki25.sh --seed 42 --pending --ready
  pipesmoke status configs/wiki25.sh --results --nbest 3`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "restrict to one seed of SEEDS")
	cmd.Flags().BoolVar(&opts.Pending, "pending", false, "list checkpoints pending evaluation (requires --seed)")
	cmd.Flags().BoolVar(&opts.Ready, "ready", false, "with --pending, only list checkpoints that exist")
	cmd.Flags().BoolVar(&opts.Results, "results", false, "show validation results per seed")
	cmd.Flags().IntVar(&opts.NBest, "nbest", status.DefaultBest, "with --results, number of best checkpoints to rank")
	cmd.MarkFlagsMutuallyExclusive("pending", "results")

	return cmd
}

func runStatus(opts *StatusOptions, args []string, cmd *cobra.Command) error {
	s, err := loadSettings(opts.RootOptions)
	if err != nil {
		return err
	}
	sel, err := harness.ResolveConfig(args, s.DefaultConfig)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	vars, err := expconfig.Load(ctx, harness.SourcerFor(s), sel.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration error", err)
	}

	in := status.Inspector{Dir: s.Root}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Pending {
		checkpoints, err := in.PendingEvaluations(vars, opts.Seed, opts.Ready)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot list checkpoints", err)
		}
		if opts.Format == "json" {
			return formatter.Success(checkpoints)
		}
		for _, c := range checkpoints {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	}

	if opts.Results {
		results, err := in.Results(vars, opts.Seed, opts.NBest)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot read results", err)
		}
		if opts.Format == "json" {
			return formatter.Success(results)
		}
		if err := status.RenderResults(cmd.OutOrStdout(), results); err != nil {
			return WrapExitError(ExitCommandError, "failed to write results", err)
		}
		return nil
	}

	lines, err := in.Collect(vars, opts.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot collect status", err)
	}
	if opts.Format == "json" {
		return formatter.Success(lines)
	}

	out := cmd.OutOrStdout()
	palette := report.NewPalette(out, colorMode(opts.RootOptions))
	if err := status.Render(out, lines, palette, terminalWidth(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write status", err)
	}
	return nil
}
