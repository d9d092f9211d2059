package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. A smoke run that completes with the artifact missing
// exits with ExitFailure; each earlier stage that aborts has its own code.
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitCommandError  = 2
	ExitSetupError    = 3
	ExitPipelineError = 4
)

// ExitError carries the process exit code alongside the error. With an empty
// Message and nil Err it prints nothing.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches code and message to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError exit with ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	default:
		return ExitFailure
	}
}

// Envelope wraps every JSON document the CLI prints.
type Envelope struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
	RunID  string     `json:"run_id,omitempty"`
}

// ErrorBody describes a failure. Code is one of E_CONFIG, E_SETUP or
// E_PIPELINE.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes command results as JSON envelopes or plain text.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// Success writes data. Text mode prints it with fmt.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return json.NewEncoder(f.Writer).Encode(Envelope{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a JSON error envelope. In text mode it is a no-op; the
// message reaches stderr through the returned ExitError.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if !f.isJSON() {
		return nil
	}
	return json.NewEncoder(f.Writer).Encode(Envelope{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message, Details: details},
	})
}
