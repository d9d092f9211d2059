package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/pipesmoke/internal/runner"
)

// Handler fakes one external command.
type Handler func(ctx context.Context, cmd runner.Command) error

// FakeRunner stands in for the mockup generator and pipeline runner.
// Handlers are matched on Command.Name; an unmatched command fails.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []runner.Command
}

// NewFakeRunner creates a runner with no handlers.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]Handler)}
}

// On registers h for commands named name.
func (f *FakeRunner) On(name string, h Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Succeed registers a handler for name that does nothing.
func (f *FakeRunner) Succeed(name string) *FakeRunner {
	return f.On(name, func(context.Context, runner.Command) error { return nil })
}

// Fail registers a handler for name that exits with code.
func (f *FakeRunner) Fail(name string, code int) *FakeRunner {
	return f.On(name, func(_ context.Context, cmd runner.Command) error {
		return &runner.ExitStatusError{Command: cmd, Code: code}
	})
}

// Run records cmd and dispatches to its handler.
func (f *FakeRunner) Run(ctx context.Context, cmd runner.Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	h, ok := f.handlers[cmd.Name]
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("fake runner: unexpected command %s", cmd)
	}
	return h(ctx, cmd)
}

// Calls returns the recorded commands in order.
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]runner.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Called reports whether a command named name ran.
func (f *FakeRunner) Called(name string) bool {
	for _, c := range f.Calls() {
		if c.Name == name {
			return true
		}
	}
	return false
}
