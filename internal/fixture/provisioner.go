package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pipesmoke/internal/runner"
)

// Provisioner brings the work dir to a clean, pipeline-ready fixture state.
type Provisioner struct {
	WorkDir WorkDir
	Mockup  runner.Command // mockup generator; runs with no extra arguments
	Runner  runner.Runner
	Logger  *slog.Logger
}

// Provision clears the work dir and then runs the mockup generator.
// The work dir is guaranteed empty when the generator starts.
func (p *Provisioner) Provision(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Info("resetting work dir", "dir", p.WorkDir.Path())
	if err := p.WorkDir.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if p.Mockup.Name == "" {
		return fmt.Errorf("seed: no mockup generator configured")
	}
	logger.Info("seeding fixture", "cmd", p.Mockup.String())
	if err := p.Runner.Run(ctx, p.Mockup); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
