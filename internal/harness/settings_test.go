package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pipesmoke/internal/expconfig"
	"github.com/roach88/pipesmoke/internal/runner"
	"github.com/roach88/pipesmoke/internal/settings"
)

func TestConfigFromSettings(t *testing.T) {
	s := settings.Default()
	s.Root = "/srv/amr"

	cfg := ConfigFromSettings(s)

	assert.Equal(t, "/srv/amr", cfg.Dir)
	assert.Equal(t, "configs/wiki25-smoke.sh", cfg.DefaultConfig)
	assert.Equal(t, filepath.Join("/srv/amr", "DATA", "wiki25"), cfg.WorkDir.Path())
	assert.Equal(t, runner.Command{Name: "bash", Args: []string{"tests/create_wiki25_mockup.sh"}}, cfg.Mockup)
	assert.Equal(t, runner.Command{Name: "bash", Args: []string{"run/run_experiment.sh"}}, cfg.Pipeline)
	assert.Equal(t, expconfig.ShellSourcer{Dir: "/srv/amr"}, cfg.Sourcer)
	assert.Equal(t, "42", cfg.Defaults.Seed)
	assert.Equal(t, 10, cfg.Defaults.Beam)
	assert.Equal(t, "smatch", cfg.Defaults.Metric)
}

func TestSourcerFor_Static(t *testing.T) {
	s := settings.Default()
	s.Sourcer = settings.SourcerStatic
	assert.Equal(t, expconfig.StaticParser{Dir: "."}, SourcerFor(s))
}
