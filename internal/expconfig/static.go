package expconfig

import (
	"context"
	"fmt"
	"io"
	"os"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// interpreterVars are set by the interpreter on every run.
var interpreterVars = map[string]bool{
	"HOME":   true,
	"PATH":   true,
	"PWD":    true,
	"IFS":    true,
	"OPTIND": true,
	"UID":    true,
	"EUID":   true,
	"GID":    true,
	"PPID":   true,
}

// StaticParser evaluates the file with an in-process shell interpreter that
// refuses to run commands or open files. Assignments, quoting and parameter
// expansion behave as in a real shell.
type StaticParser struct {
	// Dir resolves relative config paths.
	Dir string
}

// Source parses and evaluates the file at path.
func (p StaticParser) Source(ctx context.Context, path string) (Vars, error) {
	if err := checkReadable(p.Dir, path); err != nil {
		return Vars{}, err
	}
	f, err := os.Open(resolve(p.Dir, path))
	if err != nil {
		return Vars{}, &ConfigError{Path: path, Message: "cannot read file", Err: err}
	}
	defer f.Close()

	file, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return Vars{}, &ConfigError{Path: path, Message: "cannot parse file", Err: err}
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(environ()...)),
		interp.StdIO(nil, io.Discard, io.Discard),
		interp.ExecHandlers(blockExec),
		interp.OpenHandler(blockOpen),
	}
	if p.Dir != "" {
		opts = append(opts, interp.Dir(p.Dir))
	}
	r, err := interp.New(opts...)
	if err != nil {
		return Vars{}, &ConfigError{Path: path, Message: "cannot start interpreter", Err: err}
	}
	if err := r.Run(ctx, file); err != nil {
		return Vars{}, &ConfigError{Path: path, Message: "cannot evaluate file", Err: err}
	}

	values := make(map[string]string, len(r.Vars))
	for k, v := range r.Vars {
		if interpreterVars[k] || !v.IsSet() {
			continue
		}
		values[k] = v.String()
	}
	return NewVars(path, values), nil
}

// environ is the environment the interpreter starts from.
func environ() []string {
	var env []string
	for _, k := range passedVars {
		if v, ok := os.LookupEnv(k); ok {
			env = append(env, k+"="+v)
		}
	}
	return env
}

func blockExec(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(_ context.Context, args []string) error {
		return fmt.Errorf("command %q not allowed in static mode", args[0])
	}
}

func blockOpen(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == os.DevNull {
		return interp.DefaultOpenHandler()(ctx, path, flag, perm)
	}
	return nil, fmt.Errorf("cannot open %q in static mode", path)
}
