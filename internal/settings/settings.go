// Package settings loads the harness settings file.
//
// The settings name the collaborators and paths of one smoke test:
//
//	root: .
//	default_config: configs/wiki25-smoke.sh
//	work_dir: DATA/wiki25
//	mockup: [bash, tests/create_wiki25_mockup.sh]
//	runner: [bash, run/run_experiment.sh]
//	sourcer: shell
//	journal: ""
//	verify:
//	  seed: "42"
//	  beam: 10
//	  split: valid
//	  domain: wiki
//	  metric: smatch
//
// Every key is optional; omitted keys keep the built-in defaults above.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --settings flag is given. Its absence is not an
// error.
const DefaultFile = "pipesmoke.yaml"

// Sourcer names.
const (
	SourcerShell  = "shell"
	SourcerStatic = "static"
)

// Settings configures one harness invocation.
type Settings struct {
	// Root is the base directory for every relative path below, and the
	// working directory of the collaborators.
	Root string `yaml:"root"`

	// DefaultConfig is the experiment configuration used when the caller
	// passes none. Selecting it also enables fixture mode.
	DefaultConfig string `yaml:"default_config"`

	// WorkDir is the working data directory reset in fixture mode.
	WorkDir string `yaml:"work_dir"`

	// Mockup is the argv of the corpora mockup generator.
	Mockup []string `yaml:"mockup"`

	// Runner is the argv of the pipeline runner; the config path is appended.
	Runner []string `yaml:"runner"`

	// Sourcer selects how configurations are read: "shell" or "static".
	Sourcer string `yaml:"sourcer"`

	// Journal is an optional SQLite path recording each run.
	Journal string `yaml:"journal,omitempty"`

	Verify Verify `yaml:"verify"`
}

// Verify holds the artifact naming defaults.
type Verify struct {
	Seed   string `yaml:"seed"`
	Beam   int    `yaml:"beam"`
	Split  string `yaml:"split"`
	Domain string `yaml:"domain"`
	Metric string `yaml:"metric"`
}

// Default returns the built-in settings of the wiki25 smoke test.
func Default() Settings {
	return Settings{
		Root:          ".",
		DefaultConfig: "configs/wiki25-smoke.sh",
		WorkDir:       "DATA/wiki25",
		Mockup:        []string{"bash", "tests/create_wiki25_mockup.sh"},
		Runner:        []string{"bash", "run/run_experiment.sh"},
		Sourcer:       SourcerShell,
		Verify: Verify{
			Seed:   "42",
			Beam:   10,
			Split:  "valid",
			Domain: "wiki",
			Metric: "smatch",
		},
	}
}

// Load reads settings from path on top of the defaults.
//
// When required is false a missing file yields the defaults. Unknown keys are
// rejected so typos surface instead of silently keeping a default.
// A relative Root resolves against the directory of the file.
func Load(path string, required bool) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return s, s.Validate()
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if !filepath.IsAbs(s.Root) {
		s.Root = filepath.Join(filepath.Dir(path), s.Root)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the settings can drive a run.
func (s Settings) Validate() error {
	var errs []error
	if s.DefaultConfig == "" {
		errs = append(errs, errors.New("default_config is required"))
	}
	if s.WorkDir == "" {
		errs = append(errs, errors.New("work_dir is required"))
	}
	if len(s.Mockup) == 0 || s.Mockup[0] == "" {
		errs = append(errs, errors.New("mockup command is required"))
	}
	if len(s.Runner) == 0 || s.Runner[0] == "" {
		errs = append(errs, errors.New("runner command is required"))
	}
	switch s.Sourcer {
	case SourcerShell, SourcerStatic:
	default:
		errs = append(errs, fmt.Errorf("sourcer must be %q or %q, got %q", SourcerShell, SourcerStatic, s.Sourcer))
	}
	if s.Verify.Beam < 0 {
		errs = append(errs, fmt.Errorf("verify.beam must not be negative, got %d", s.Verify.Beam))
	}
	return errors.Join(errs...)
}

// Abs resolves p against Root.
func (s Settings) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}
