package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/roach88/pipesmoke/internal/expconfig"
	"github.com/roach88/pipesmoke/internal/fixture"
	"github.com/roach88/pipesmoke/internal/journal"
	"github.com/roach88/pipesmoke/internal/runner"
	"github.com/roach88/pipesmoke/internal/verify"
)

// Reporter renders the verdict of a verified run.
type Reporter interface {
	Report(ok bool, identity string) error
}

// Recorder persists runs and their stage transitions. *journal.Journal
// implements it.
type Recorder interface {
	BeginRun(ctx context.Context, run journal.Run) error
	AppendEvent(ctx context.Context, runID string, e journal.Event) error
	FinishRun(ctx context.Context, runID, outcome, artifact, errMsg string) error
}

// Config wires a Harness. Runner and Sourcer are required.
type Config struct {
	// Identity names the invoking harness in the status line.
	Identity string

	// Dir is the working directory of the collaborators. Relative config
	// paths and relative artifact paths resolve against it.
	Dir string

	DefaultConfig string
	WorkDir       fixture.WorkDir

	// Mockup runs with no extra arguments; Pipeline gets the config path
	// appended.
	Mockup   runner.Command
	Pipeline runner.Command

	Runner  runner.Runner
	Sourcer expconfig.Sourcer

	// Override and Defaults feed verify.FieldsFrom.
	Override verify.Defaults
	Defaults verify.Defaults

	// Optional collaborators.
	Reporter Reporter
	Recorder Recorder
	IDs      journal.IDGenerator
	Clock    Clock
	Logger   *slog.Logger
}

// Harness runs one smoke test per Run call. Runs are sequential; a Harness
// must not be shared by concurrent runs against the same work dir.
type Harness struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Harness, filling optional collaborators with defaults.
func New(cfg Config) *Harness {
	if cfg.Clock == nil {
		cfg.Clock = &logicalClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = journal.UUIDv7Generator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{cfg: cfg, logger: logger}
}

// run carries the state of one invocation.
type run struct {
	h      *Harness
	result *Result
	begun  bool
}

// Run executes the smoke test for args (zero or one configuration path).
//
// It returns a Result when verification was reached, whatever the outcome,
// and a typed error (*ConfigError, *SetupError, *PipelineError) when a stage
// aborted. On abort the Reporter is not called.
func (h *Harness) Run(ctx context.Context, args []string) (*Result, error) {
	r := &run{h: h, result: &Result{RunID: h.cfg.IDs.Generate()}}
	r.transition(ctx, StageStart, "")

	sel, err := ResolveConfig(args, h.cfg.DefaultConfig)
	if err != nil {
		return nil, r.abort(ctx, err)
	}
	r.result.Selection = sel
	r.begin(ctx)

	if _, err := expconfig.Load(ctx, h.cfg.Sourcer, sel.ConfigPath); err != nil {
		return nil, r.abort(ctx, &ConfigError{Err: err})
	}
	r.transition(ctx, StageConfigResolved, sel.ConfigPath)

	if sel.TestMode {
		p := &fixture.Provisioner{
			WorkDir: h.cfg.WorkDir,
			Mockup:  h.inDir(h.cfg.Mockup),
			Runner:  h.cfg.Runner,
			Logger:  h.logger,
		}
		if err := p.Provision(ctx); err != nil {
			return nil, r.abort(ctx, &SetupError{Err: err})
		}
		r.transition(ctx, StageFixtureReady, h.cfg.WorkDir.Path())
	} else {
		h.logger.Info("fixture provisioning skipped", "config", sel.ConfigPath)
	}

	pipeline := h.inDir(h.cfg.Pipeline)
	pipeline.Args = append(append([]string{}, pipeline.Args...), sel.ConfigPath)
	h.logger.Info("running pipeline", "cmd", pipeline.String())
	if err := h.cfg.Runner.Run(ctx, pipeline); err != nil {
		return nil, r.abort(ctx, &PipelineError{Command: pipeline, Err: err})
	}
	r.transition(ctx, StagePipelineRan, "")

	if err := r.verify(ctx); err != nil {
		return nil, r.abort(ctx, err)
	}
	r.finish(ctx, string(r.result.Outcome), "")

	if h.cfg.Reporter != nil {
		if err := h.cfg.Reporter.Report(r.result.OK(), h.cfg.Identity); err != nil {
			return r.result, fmt.Errorf("report: %w", err)
		}
	}
	return r.result, nil
}

// verify re-reads the configuration and checks the derived artifact.
func (r *run) verify(ctx context.Context) error {
	h := r.h
	vars, err := expconfig.Load(ctx, h.cfg.Sourcer, r.result.Selection.ConfigPath)
	if err != nil {
		return &ConfigError{Err: err}
	}
	fields, err := verify.FieldsFrom(vars, h.cfg.Override, h.cfg.Defaults)
	if err != nil {
		return &ConfigError{Err: err}
	}

	artifact := verify.Path(fields)
	present, err := verify.Check(h.abs(artifact))
	if err != nil {
		h.logger.Warn("artifact not inspectable", "path", artifact, "error", err)
		present = false
	}

	r.result.Fields = fields
	r.result.Artifact = artifact
	r.result.Outcome = OutcomeFailed
	if present {
		r.result.Outcome = OutcomeOK
	}
	h.logger.Info("verified", "artifact", artifact, "outcome", r.result.Outcome)
	r.transition(ctx, StageVerified, string(r.result.Outcome))
	return nil
}

func (r *run) transition(ctx context.Context, stage Stage, detail string) {
	e := TraceEvent{Seq: r.h.cfg.Clock.Next(), Stage: stage, Detail: detail}
	r.result.Trace = append(r.result.Trace, e)
	r.h.logger.Debug("stage", "seq", e.Seq, "stage", stage, "detail", detail)

	if r.begun {
		r.record(ctx, e)
	}
}

// begin opens the journal entry once the configuration is known and flushes
// the events recorded so far.
func (r *run) begin(ctx context.Context) {
	rec := r.h.cfg.Recorder
	if rec == nil {
		return
	}
	err := rec.BeginRun(ctx, journal.Run{
		ID:         r.result.RunID,
		Identity:   r.h.cfg.Identity,
		ConfigPath: r.result.Selection.ConfigPath,
		TestMode:   r.result.Selection.TestMode,
	})
	if err != nil {
		r.h.logger.Warn("journal unavailable", "error", err)
		return
	}
	r.begun = true
	for _, e := range r.result.Trace {
		r.record(ctx, e)
	}
}

func (r *run) record(ctx context.Context, e TraceEvent) {
	err := r.h.cfg.Recorder.AppendEvent(ctx, r.result.RunID, journal.Event{
		Seq:    e.Seq,
		Stage:  string(e.Stage),
		Detail: e.Detail,
	})
	if err != nil {
		r.h.logger.Warn("journal append failed", "error", err)
	}
}

func (r *run) finish(ctx context.Context, outcome, errMsg string) {
	if !r.begun {
		return
	}
	if err := r.h.cfg.Recorder.FinishRun(ctx, r.result.RunID, outcome, r.result.Artifact, errMsg); err != nil {
		r.h.logger.Warn("journal finish failed", "error", err)
	}
}

// abort records the terminal ABORTED transition and returns err.
func (r *run) abort(ctx context.Context, err error) error {
	r.transition(ctx, StageAborted, stageOf(err))
	r.h.logger.Error("run aborted", "error", err)
	r.finish(ctx, string(StageAborted), err.Error())
	return err
}

func stageOf(err error) string {
	var (
		cfgErr      *ConfigError
		setupErr    *SetupError
		pipelineErr *PipelineError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &setupErr):
		return "setup"
	case errors.As(err, &pipelineErr):
		return "pipeline"
	default:
		return "unknown"
	}
}

func (h *Harness) inDir(c runner.Command) runner.Command {
	if c.Dir == "" {
		c.Dir = h.cfg.Dir
	}
	return c
}

func (h *Harness) abs(p string) string {
	if h.cfg.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(h.cfg.Dir, p)
}
