package harness

import "github.com/roach88/pipesmoke/internal/verify"

// Stage is a state of the run state machine.
type Stage string

const (
	StageStart          Stage = "START"
	StageConfigResolved Stage = "CONFIG_RESOLVED"
	StageFixtureReady   Stage = "FIXTURE_READY"
	StagePipelineRan    Stage = "PIPELINE_RAN"
	StageVerified       Stage = "VERIFIED"
	StageAborted        Stage = "ABORTED"
)

// Outcome is the verdict of a verified run.
type Outcome string

const (
	OutcomeOK     Outcome = "OK"
	OutcomeFailed Outcome = "FAILED"
)

// Selection is the configuration chosen for a run.
type Selection struct {
	ConfigPath string `json:"config_path"`

	// TestMode is true when the built-in default configuration was selected;
	// it enables fixture provisioning.
	TestMode bool `json:"test_mode"`
}

// TraceEvent is one stage transition.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Stage  Stage  `json:"stage"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of a run that reached verification.
type Result struct {
	RunID     string        `json:"run_id"`
	Selection Selection     `json:"selection"`
	Fields    verify.Fields `json:"fields"`
	Artifact  string        `json:"artifact"`
	Outcome   Outcome       `json:"outcome"`
	Trace     []TraceEvent  `json:"trace"`
}

// OK reports whether the expected artifact was found.
func (r *Result) OK() bool {
	return r != nil && r.Outcome == OutcomeOK
}

// Stages returns the visited stages in order.
func (r *Result) Stages() []Stage {
	stages := make([]Stage, len(r.Trace))
	for i, e := range r.Trace {
		stages[i] = e.Stage
	}
	return stages
}
