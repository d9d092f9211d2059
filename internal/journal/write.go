package journal

import (
	"context"
	"fmt"
)

// BeginRun inserts a run with an empty outcome.
func (j *Journal) BeginRun(ctx context.Context, run Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, identity, config_path, test_mode)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Identity, run.ConfigPath, boolToInt(run.TestMode))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// AppendEvent records a stage transition. Re-appending the same seq is a
// no-op.
func (j *Journal) AppendEvent(ctx context.Context, runID string, e Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO stage_events (run_id, seq, stage, detail)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, runID, e.Seq, e.Stage, e.Detail)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// FinishRun stores the terminal outcome of a run.
func (j *Journal) FinishRun(ctx context.Context, runID, outcome, artifact, errMsg string) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE runs SET outcome = ?, artifact = ?, error = ? WHERE id = ?
	`, outcome, artifact, errMsg, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
