package harness

import (
	"github.com/roach88/pipesmoke/internal/expconfig"
	"github.com/roach88/pipesmoke/internal/fixture"
	"github.com/roach88/pipesmoke/internal/runner"
	"github.com/roach88/pipesmoke/internal/settings"
	"github.com/roach88/pipesmoke/internal/verify"
)

// ConfigFromSettings maps loaded settings onto a Config. Runner, Reporter,
// Recorder and Logger are left for the caller.
func ConfigFromSettings(s settings.Settings) Config {
	return Config{
		Dir:           s.Root,
		DefaultConfig: s.DefaultConfig,
		WorkDir:       fixture.NewWorkDir(s.Abs(s.WorkDir)),
		Mockup:        runner.FromArgv(s.Mockup),
		Pipeline:      runner.FromArgv(s.Runner),
		Sourcer:       SourcerFor(s),
		Defaults:      DefaultsFrom(s.Verify),
	}
}

// SourcerFor returns the configuration reader named by s.Sourcer.
func SourcerFor(s settings.Settings) expconfig.Sourcer {
	if s.Sourcer == settings.SourcerStatic {
		return expconfig.StaticParser{Dir: s.Root}
	}
	return expconfig.ShellSourcer{Dir: s.Root}
}

// DefaultsFrom converts the verify settings.
func DefaultsFrom(v settings.Verify) verify.Defaults {
	return verify.Defaults{
		Seed:   v.Seed,
		Beam:   v.Beam,
		Split:  v.Split,
		Domain: v.Domain,
		Metric: v.Metric,
	}
}
