package status

import (
	"bufio"
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/pipesmoke/internal/expconfig"
)

// DefaultBest is the number of top checkpoints kept per seed.
const DefaultBest = 5

// top5Result is the beam 10 validation result of the averaged top-5 model.
const top5Result = "beam10/valid_checkpoint_wiki.smatch_top5-avg.pt"

// Score is the validation score of one epoch, in percent.
type Score struct {
	Epoch int     `json:"epoch"`
	Value float64 `json:"score"`
}

// Result summarises the validation scores of one seed.
type Result struct {
	Seed     string `json:"seed"`
	Folder   string `json:"folder"`
	MaxEpoch int    `json:"max_epoch"`

	// Best holds at most n scores in ascending order; the last is the best.
	Best []Score `json:"best"`

	// Missing lists target epochs without a result file, ascending.
	Missing []int `json:"missing,omitempty"`

	// Top5 is the averaged top-5 model score, when it was decoded.
	Top5 *float64 `json:"top5_beam10,omitempty"`
}

// BestScore returns the highest scored epoch.
func (r Result) BestScore() Score {
	return r.Best[len(r.Best)-1]
}

// Results ranks the scored epochs of every selected seed and keeps the nbest
// highest. Seeds with no score yet are left out. Results are ordered by Top5,
// unscored models first.
func (in Inspector) Results(vars expconfig.Vars, seed string, nbest int) ([]Result, error) {
	if nbest <= 0 {
		return nil, fmt.Errorf("nbest must be positive, got %d", nbest)
	}
	seeds, err := selectSeeds(vars, seed)
	if err != nil {
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

	var results []Result
	for _, s := range seeds {
		seedFolder := model + "-seed" + s
		r := Result{Seed: s, Folder: seedFolder, MaxEpoch: plan.maxEpoch}

		var scores []Score
		for _, epoch := range plan.targets() {
			file := fmt.Sprintf("%s/epoch_tests/dec-checkpoint%d.%s", seedFolder, epoch, plan.metric)
			if !in.isFile(file) {
				r.Missing = append(r.Missing, epoch)
				continue
			}
			value, ok, err := ScoreFromFile(in.path(file), plan.metric)
			if err != nil {
				return nil, err
			}
			if ok {
				scores = append(scores, Score{Epoch: epoch, Value: value})
			}
		}
		if len(scores) == 0 {
			continue
		}
		slices.SortStableFunc(scores, func(a, b Score) int { return cmp.Compare(a.Value, b.Value) })
		r.Best = scores[max(len(scores)-nbest, 0):]

		top5 := seedFolder + "/" + top5Result + "." + plan.metric
		if in.isFile(top5) {
			value, ok, err := ScoreFromFile(in.path(top5), plan.metric)
			if err != nil {
				return nil, err
			}
			if ok {
				r.Top5 = &value
			}
		}
		results = append(results, r)
	}

	slices.SortStableFunc(results, func(a, b Result) int { return cmp.Compare(top5Key(a), top5Key(b)) })
	return results, nil
}

func top5Key(r Result) float64 {
	if r.Top5 == nil {
		return -1
	}
	return *r.Top5
}

// ScoreFromFile reads the first "F-score: <x>" line of a result file and
// returns x as a percentage. ok is false when no such line exists. Only
// smatch metrics are understood.
func ScoreFromFile(path, metric string) (score float64, ok bool, err error) {
	if !strings.Contains(metric, "smatch") {
		return 0, false, fmt.Errorf("unknown score type %s", metric)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		sub := scoreRe.FindStringSubmatch(sc.Text())
		if sub == nil {
			continue
		}
		v, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s: bad score %q: %w", path, sub[1], err)
		}
		return 100 * v, true, nil
	}
	return 0, false, sc.Err()
}
