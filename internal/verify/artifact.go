// Package verify derives the expected terminal artifact of a pipeline run
// and checks whether it exists.
//
// The artifact is the scoring result of the decoded validation set:
//
//	<MODEL_FOLDER>-seed<seed>/beam<beam>/<split>_<DECODING_CHECKPOINT>.<domain>.<metric>
//
// Only its existence matters; the content is never read.
package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/pipesmoke/internal/expconfig"
)

// Fields are the naming parameters of the expected artifact.
type Fields struct {
	Root       string `json:"root"` // model folder root, without the seed suffix
	Seed       string `json:"seed"`
	Beam       int    `json:"beam"`
	Checkpoint string `json:"checkpoint"`
	Split      string `json:"split"`
	Domain     string `json:"domain"`
	Metric     string `json:"metric"`
}

// Defaults fill Fields the configuration leaves open. Non-zero Seed and Beam
// in an override take precedence over the configuration.
type Defaults struct {
	Seed   string
	Beam   int
	Split  string
	Domain string
	Metric string
}

// Path builds the artifact path from f. It is a pure function of f.
func Path(f Fields) string {
	name := fmt.Sprintf("%s_%s.%s.%s", f.Split, f.Checkpoint, f.Domain, f.Metric)
	return filepath.Join(
		f.Root+"-seed"+f.Seed,
		"beam"+strconv.Itoa(f.Beam),
		name,
	)
}

// FieldsFrom reads the naming parameters from vars.
//
// Resolution order: override, then the configuration (first of SEEDS,
// BEAM_SIZE, EVAL_METRIC), then fallback. MODEL_FOLDER and
// DECODING_CHECKPOINT are required.
func FieldsFrom(vars expconfig.Vars, override, fallback Defaults) (Fields, error) {
	root, err := vars.Require(expconfig.KeyModelFolder)
	if err != nil {
		return Fields{}, err
	}
	checkpoint, err := vars.Require(expconfig.KeyDecodingCheckpoint)
	if err != nil {
		return Fields{}, err
	}

	f := Fields{
		Root:       root,
		Checkpoint: checkpoint,
		Seed:       fallback.Seed,
		Beam:       fallback.Beam,
		Split:      firstNonEmpty(override.Split, fallback.Split),
		Domain:     firstNonEmpty(override.Domain, fallback.Domain),
		Metric:     firstNonEmpty(override.Metric, vars.Value(expconfig.KeyEvalMetric), fallback.Metric),
	}

	if seeds := vars.Seeds(); len(seeds) > 0 {
		f.Seed = seeds[0]
	}
	if override.Seed != "" {
		f.Seed = override.Seed
	}

	beam, ok, err := vars.Int(expconfig.KeyBeamSize)
	if err != nil {
		return Fields{}, err
	}
	if ok {
		f.Beam = beam
	}
	if override.Beam > 0 {
		f.Beam = override.Beam
	}

	if f.Seed == "" {
		return Fields{}, &expconfig.ConfigError{
			Path:    vars.Path(),
			Keys:    []string{expconfig.KeySeeds},
			Message: "no seed configured",
		}
	}
	return f, nil
}

// Check reports whether a regular file exists at path. Absence is a normal
// outcome, not an error; err is set only when the path cannot be inspected.
func Check(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect artifact: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
