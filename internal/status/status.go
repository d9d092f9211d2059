// Package status reports how far an experiment has progressed on disk.
//
// It inspects the folders a configuration names and renders one line per
// item:
//
//	[done ] DATA/wiki25/aligned/cofill
//	[part ] DATA/wiki25/oracles/cofill_o10
//	[ 3/10] DATA/wiki25/models/exp-seed42
//
// Nothing is modified.
package status

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/roach88/pipesmoke/internal/expconfig"
)

// Level is the progress level of one item.
type Level int

const (
	Pending Level = iota
	Partial
	Done
)

func (l Level) String() string {
	switch l {
	case Done:
		return "done"
	case Partial:
		return "part"
	default:
		return "pend"
	}
}

// Line is one status item. Tag is the uncoloured first column.
type Line struct {
	Tag   string `json:"tag"`
	Level Level  `json:"level"`
	Path  string `json:"path"`
}

// stageFolders are the pre-training stages, in pipeline order.
var stageFolders = []string{
	expconfig.KeyAlignedFolder,
	expconfig.KeyOracleFolder,
	expconfig.KeyEmbFolder,
	expconfig.KeyDataFolder,
}

var (
	checkpointRe = regexp.MustCompile(`checkpoint([0-9]+)\.pt$`)
	scoreRe      = regexp.MustCompile(`^F-score: ([0-9.]+)`)
)

// Inspector reads experiment state relative to Dir.
type Inspector struct {
	Dir string
}

// Collect builds the status lines for vars. An empty seed reports every seed
// in SEEDS; otherwise seed must be one of them.
func (in Inspector) Collect(vars expconfig.Vars, seed string) ([]Line, error) {
	var lines []Line
	for _, key := range stageFolders {
		folder, ok := vars.Get(key)
		if !ok || folder == "" {
			continue
		}
		lines = append(lines, in.stageLine(folder))
	}

	seeds, err := selectSeeds(vars, seed)
	if err != nil {
		return nil, err
	}
	model, err := vars.Require(expconfig.KeyModelFolder)
	if err != nil {
		return nil, err
	}
	checkpoint, err := vars.Require(expconfig.KeyDecodingCheckpoint)
	if err != nil {
		return nil, err
	}
	plan, err := evalPlanFrom(vars)
	if err != nil {
		return nil, err
	}

	for _, s := range seeds {
		seedFolder := model + "-seed" + s
		lines = append(lines, in.trainingLine(seedFolder, plan.maxEpoch))

		missing, err := in.missingEvaluations(seedFolder, plan)
		if err != nil {
			return nil, err
		}
		lines = append(lines, evaluationLine(seedFolder, len(plan.targets()), len(missing)))

		decoding := seedFolder + "/" + checkpoint
		level := Pending
		if in.isFile(decoding) {
			level = Done
		}
		lines = append(lines, Line{Tag: level.String(), Level: level, Path: decoding})
	}
	return lines, nil
}

// PendingEvaluations lists the checkpoints of seed whose validation result is
// still missing, newest epoch first. With ready set, only checkpoints already
// written are listed. Paths are absolute.
func (in Inspector) PendingEvaluations(vars expconfig.Vars, seed string, ready bool) ([]string, error) {
	if seed == "" {
		return nil, fmt.Errorf("a seed is required")
	}
	if _, err := selectSeeds(vars, seed); err != nil {
		return nil, err
	}
	model, err := vars.Require(expconfig.KeyModelFolder)
	if err != nil {
		return nil, err
	}
	plan, err := evalPlanFrom(vars)
	if err != nil {
		return nil, err
	}

	seedFolder := model + "-seed" + seed
	missing, err := in.missingEvaluations(seedFolder, plan)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, epoch := range missing {
		ckpt := fmt.Sprintf("%s/checkpoint%d.pt", seedFolder, epoch)
		if ready && !in.isFile(ckpt) {
			continue
		}
		abs, err := filepath.Abs(in.path(ckpt))
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}

func selectSeeds(vars expconfig.Vars, seed string) ([]string, error) {
	seeds := vars.Seeds()
	if seed == "" {
		if len(seeds) == 0 {
			return nil, &expconfig.ConfigError{
				Path:    vars.Path(),
				Keys:    []string{expconfig.KeySeeds},
				Message: "no seed configured",
			}
		}
		return seeds, nil
	}
	if !slices.Contains(seeds, seed) {
		return nil, fmt.Errorf("%s is not a trained seed for the model", seed)
	}
	return []string{seed}, nil
}

// evalPlan is the epoch range to evaluate and the result file suffix.
type evalPlan struct {
	initEpoch int
	maxEpoch  int
	metric    string
}

func (p evalPlan) targets() []int {
	var epochs []int
	for e := p.initEpoch; e <= p.maxEpoch; e++ {
		epochs = append(epochs, e)
	}
	return epochs
}

func evalPlanFrom(vars expconfig.Vars) (evalPlan, error) {
	maxEpoch, err := requireInt(vars, expconfig.KeyMaxEpoch)
	if err != nil {
		return evalPlan{}, err
	}
	initEpoch, err := requireInt(vars, expconfig.KeyEvalInitEpoch)
	if err != nil {
		return evalPlan{}, err
	}
	metric, err := vars.Require(expconfig.KeyEvalMetric)
	if err != nil {
		return evalPlan{}, err
	}
	return evalPlan{initEpoch: initEpoch, maxEpoch: maxEpoch, metric: metric}, nil
}

func requireInt(vars expconfig.Vars, key string) (int, error) {
	n, ok, err := vars.Int(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &expconfig.ConfigError{Path: vars.Path(), Keys: []string{key}, Message: "required variable not set"}
	}
	return n, nil
}

func (in Inspector) stageLine(folder string) Line {
	level := Pending
	switch {
	case in.isFile(folder + "/.done"):
		level = Done
	case in.isDir(folder):
		level = Partial
	}
	return Line{Tag: level.String(), Level: level, Path: folder}
}

func (in Inspector) trainingLine(seedFolder string, maxEpoch int) Line {
	if in.isFile(fmt.Sprintf("%s/checkpoint%d.pt", seedFolder, maxEpoch)) {
		return Line{Tag: fraction(maxEpoch, maxEpoch), Level: Done, Path: seedFolder}
	}

	matches, _ := filepath.Glob(filepath.Join(in.path(seedFolder), "checkpoint*.pt"))
	current, level := 0, Pending
	for _, m := range matches {
		if sub := checkpointRe.FindStringSubmatch(m); sub != nil {
			n, _ := strconv.Atoi(sub[1])
			current = max(current, n)
			level = Partial
		}
	}
	return Line{Tag: fraction(current, maxEpoch), Level: level, Path: seedFolder}
}

// missingEvaluations returns the target epochs with no de[cv]-checkpoint<N>
// result under epoch_tests, in descending order.
func (in Inspector) missingEvaluations(seedFolder string, plan evalPlan) ([]int, error) {
	resultRe, err := regexp.Compile(`de[cv]-checkpoint([0-9]+)\.` + regexp.QuoteMeta(plan.metric) + `$`)
	if err != nil {
		return nil, err
	}
	matches, _ := filepath.Glob(filepath.Join(in.path(seedFolder), "epoch_tests", "*."+plan.metric))
	seen := make(map[int]bool)
	for _, m := range matches {
		if sub := resultRe.FindStringSubmatch(m); sub != nil {
			n, _ := strconv.Atoi(sub[1])
			seen[n] = true
		}
	}

	var missing []int
	targets := plan.targets()
	for i := len(targets) - 1; i >= 0; i-- {
		if !seen[targets[i]] {
			missing = append(missing, targets[i])
		}
	}
	return missing, nil
}

func evaluationLine(seedFolder string, total, missing int) Line {
	evaluated := total - missing
	switch {
	case missing == 0:
		return Line{Tag: fraction(total, total), Level: Done, Path: seedFolder}
	case evaluated > 0:
		return Line{Tag: fraction(evaluated, total), Level: Partial, Path: seedFolder}
	default:
		return Line{Tag: fraction(0, total), Level: Pending, Path: seedFolder}
	}
}

func fraction(n, total int) string {
	return strconv.Itoa(n) + "/" + strconv.Itoa(total)
}

func (in Inspector) path(p string) string {
	if in.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(in.Dir, p)
}

func (in Inspector) isFile(p string) bool {
	info, err := os.Stat(in.path(p))
	return err == nil && info.Mode().IsRegular()
}

func (in Inspector) isDir(p string) bool {
	info, err := os.Stat(in.path(p))
	return err == nil && info.IsDir()
}
