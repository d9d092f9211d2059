package harness

import (
	"fmt"

	"github.com/roach88/pipesmoke/internal/runner"
)

// ConfigError aborts a run before any state is touched, or before
// verification when the configuration no longer yields the artifact fields.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SetupError aborts a run whose fixture could not be provisioned.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed: %v", e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// PipelineError aborts a run whose pipeline runner failed. Verification is
// never attempted after it.
type PipelineError struct {
	Command runner.Command
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed: %v", e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
