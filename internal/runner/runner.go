// Package runner invokes external collaborators: the corpora mockup
// generator and the experiment pipeline runner.
//
// The harness only ever sees a binary success/failure contract, so the
// capability is a single method. Tests substitute a fake (see
// internal/testutil) for the real process.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Command is one external process invocation.
type Command struct {
	Name string   // executable
	Args []string // arguments, not including Name
	Dir  string   // working directory; empty means the current one
	Env  []string // extra KEY=VALUE entries appended to the inherited environment
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// FromArgv builds a Command from an argv slice.
func FromArgv(argv []string, extra ...string) Command {
	if len(argv) == 0 {
		return Command{}
	}
	args := make([]string, 0, len(argv)-1+len(extra))
	args = append(args, argv[1:]...)
	args = append(args, extra...)
	return Command{Name: argv[0], Args: args}
}

// Runner executes a command to completion.
// A nil error means the command reported success.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitStatusError reports a command that ran but exited non-zero.
type ExitStatusError struct {
	Command Command
	Code    int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// ExecRunner runs commands as child processes. Child output is streamed to
// Stdout and Stderr so collaborator diagnostics reach the user before the
// harness aborts.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Run starts the command and blocks until it exits. There is no timeout;
// cancelling ctx kills the child.
func (r ExecRunner) Run(ctx context.Context, c Command) error {
	if c.Name == "" {
		return errors.New("empty command")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	logger.Debug("exec", "cmd", c.String(), "dir", c.Dir)
	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &ExitStatusError{Command: c, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("%s: %w", c, err)
}
