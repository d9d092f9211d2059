package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/report"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Settings string // settings file; empty reads settings.DefaultFile if present
	Color    string // "auto" | "always" | "never"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pipesmoke CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pipesmoke",
		Short: "pipesmoke - end-to-end smoke test for the training pipeline",
		Long: `Run the experiment pipeline against a small fixture and check that the
scored validation artifact appears where the configuration says it will.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := report.ParseColorMode(opts.Color); err != nil {
				return WrapExitError(ExitCommandError, "invalid color mode", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Settings, "settings", "", "settings file (default ./pipesmoke.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colorize output (auto|always|never)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewArtifactCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
