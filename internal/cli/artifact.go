package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/expconfig"
	"github.com/roach88/pipesmoke/internal/harness"
	"github.com/roach88/pipesmoke/internal/verify"
)

// ArtifactOptions holds flags for the artifact command.
type ArtifactOptions struct {
	*RootOptions
	Seed string
	Beam int
}

// ArtifactResult is the JSON payload of the artifact command.
type ArtifactResult struct {
	Config string        `json:"config"`
	Fields verify.Fields `json:"fields"`
	Path   string        `json:"path"`
	Exists bool          `json:"exists"`
}

// NewArtifactCommand creates the artifact command.
func NewArtifactCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArtifactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "artifact [config]",
		Short: "Print the expected artifact path",
		Long: `Print the path of the scored artifact a pipeline run is expected to write
for the configuration, without running anything.

Example:
  pipesmoke artifact
  pipesmoke artifact configs/wiki25.sh --seed 43 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArtifact(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed (overrides SEEDS)")
	cmd.Flags().IntVar(&opts.Beam, "beam", 0, "beam size (overrides BEAM_SIZE)")

	return cmd
}

func runArtifact(opts *ArtifactOptions, args []string, cmd *cobra.Command) error {
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
	fields, err := verify.FieldsFrom(vars,
		verify.Defaults{Seed: opts.Seed, Beam: opts.Beam},
		harness.DefaultsFrom(s.Verify))
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration error", err)
	}

	path := verify.Path(fields)
	exists, err := verify.Check(s.Abs(path))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to inspect artifact", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return formatter.Success(ArtifactResult{
			Config: sel.ConfigPath,
			Fields: fields,
			Path:   path,
			Exists: exists,
		})
	}
	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "exists: %t\n", exists)
	}
	return formatter.Success(path)
}
