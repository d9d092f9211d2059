package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/harness"
	"github.com/roach88/pipesmoke/internal/journal"
	"github.com/roach88/pipesmoke/internal/report"
	"github.com/roach88/pipesmoke/internal/runner"
	"github.com/roach88/pipesmoke/internal/verify"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal  string
	Seed     string
	Beam     int
	Identity string

	// Runner overrides the collaborator runner (for testing).
	// If nil, commands run as child processes.
	Runner runner.Runner

	// IDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs journal.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Run the pipeline smoke test",
		Long: `Run the experiment pipeline once and check for its scored artifact.

Without a configuration argument the default configuration is used and the
work dir is reset and seeded with mockup data first. With an argument the
work dir is left alone; the caller is responsible for the data.

Prints a single [ OK ] or [FAILED] line. Exit codes:
  0  artifact found
  1  artifact missing
  2  configuration or command error
  3  fixture setup failed
  4  pipeline failed

Example:
  pipesmoke run
  pipesmoke run configs/amr2.0-structured-bart-large.sh --journal smoke.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record the run in this SQLite journal")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed of the expected artifact (overrides SEEDS)")
	cmd.Flags().IntVar(&opts.Beam, "beam", 0, "beam size of the expected artifact (overrides BEAM_SIZE)")
	cmd.Flags().StringVar(&opts.Identity, "identity", "", "test identity printed in the status line (default: program name)")

	return cmd
}

func runSmoke(opts *RunOptions, args []string, cmd *cobra.Command) error {
	s, err := loadSettings(opts.RootOptions)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg := harness.ConfigFromSettings(s)
	cfg.Logger = logger
	cfg.Identity = opts.Identity
	if cfg.Identity == "" {
		cfg.Identity = os.Args[0]
	}
	cfg.Override = verify.Defaults{Seed: opts.Seed, Beam: opts.Beam}
	cfg.IDs = opts.IDs
	cfg.Runner = opts.Runner
	if cfg.Runner == nil {
		cfg.Runner = runner.ExecRunner{
			Stdout: cmd.ErrOrStderr(),
			Stderr: cmd.ErrOrStderr(),
			Logger: logger,
		}
	}
	if opts.Format == "text" {
		cfg.Reporter = report.New(cmd.OutOrStdout(), colorMode(opts.RootOptions))
	}

	journalPath := opts.Journal
	if journalPath == "" {
		journalPath = s.Abs(s.Journal)
	}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			logger.Warn("journal disabled", "path", journalPath, "error", err)
		} else {
			defer func() {
				if closeErr := j.Close(); closeErr != nil {
					logger.Error("error closing journal", "error", closeErr)
				}
			}()
			cfg.Recorder = j
		}
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := harness.New(cfg).Run(ctx, args)
	if err != nil {
		return abortError(formatter, logger, res, err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(res); err != nil {
			return WrapExitError(ExitCommandError, "failed to write result", err)
		}
	}
	if !res.OK() {
		return NewExitError(ExitFailure, "")
	}
	return nil
}

// abortError maps a harness error onto its exit code.
func abortError(f *OutputFormatter, logger *slog.Logger, res *harness.Result, err error) error {
	var (
		cfgErr      *harness.ConfigError
		setupErr    *harness.SetupError
		pipelineErr *harness.PipelineError
	)
	code, name := ExitFailure, "E_REPORT"
	switch {
	case errors.As(err, &cfgErr):
		code, name = ExitCommandError, "E_CONFIG"
	case errors.As(err, &setupErr):
		code, name = ExitSetupError, "E_SETUP"
	case errors.As(err, &pipelineErr):
		code, name = ExitPipelineError, "E_PIPELINE"
	}
	if res != nil {
		// The verdict was reached; only reporting failed.
		logger.Error("status line not written", "outcome", res.Outcome, "error", err)
	}
	if fErr := f.Error(name, err.Error(), nil); fErr != nil {
		logger.Error("failed to write error response", "error", fErr)
	}
	return &ExitError{Code: code, Message: "smoke test aborted", Err: err}
}
