// Package harness runs the pipeline smoke test.
//
// A run moves through a fixed sequence of stages:
//
//	START → CONFIG_RESOLVED → [FIXTURE_READY] → PIPELINE_RAN → VERIFIED → {OK, FAILED}
//
// FIXTURE_READY is only visited in test mode, which is selected by giving no
// configuration argument. Any stage before VERIFIED may abort instead of
// proceeding; aborts are returned as typed errors:
//
//   - *ConfigError: no readable configuration, or a required variable is missing
//   - *SetupError: the work dir could not be reset or the mockup generator failed
//   - *PipelineError: the pipeline runner reported failure
//
// Reaching VERIFIED always yields a Result; a missing artifact is a FAILED
// outcome, not an error.
//
// # Usage
//
//	h := harness.New(harness.Config{...})
//	result, err := h.Run(ctx, os.Args[1:])
//	if err != nil {
//	    var setupErr *harness.SetupError
//	    if errors.As(err, &setupErr) { ... }
//	}
//	if !result.OK() { ... }
//
// The harness assumes it is the only writer of the work dir for the duration
// of a run.
package harness
