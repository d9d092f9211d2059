package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by Run for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Runs returns up to limit runs, newest first. limit <= 0 returns all.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, identity, config_path, test_mode, outcome, artifact, error
		FROM runs
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var testMode int
		if err := rows.Scan(&r.ID, &r.Identity, &r.ConfigPath, &testMode, &r.Outcome, &r.Artifact, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.TestMode = testMode != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with the given id.
func (j *Journal) Run(ctx context.Context, id string) (Run, error) {
	var r Run
	var testMode int
	err := j.db.QueryRowContext(ctx, `
		SELECT id, identity, config_path, test_mode, outcome, artifact, error
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Identity, &r.ConfigPath, &testMode, &r.Outcome, &r.Artifact, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	r.TestMode = testMode != 0
	return r, nil
}

// Events returns the stage events of a run in seq order.
func (j *Journal) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, stage, detail
		FROM stage_events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.Stage, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
