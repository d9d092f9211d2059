package expconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Sourcer produces the variables a configuration file defines.
type Sourcer interface {
	Source(ctx context.Context, path string) (Vars, error)
}

// sourceScript sources $1 with allexport on and prints the resulting
// environment as NUL separated records.
const sourceScript = `set -a
. "$1" >/dev/null || exit $?
env -0
`

// ignoredShellVars are maintained by bash itself and are never config.
var ignoredShellVars = map[string]bool{
	"_":      true,
	"SHLVL":  true,
	"PWD":    true,
	"OLDPWD": true,
}

// passedVars are the only variables handed to the shell. They are reported
// only when the file assigns them a different value.
var passedVars = []string{"PATH", "HOME"}

// ShellSourcer sources configuration files with bash.
type ShellSourcer struct {
	// Shell is the interpreter; defaults to "bash".
	Shell string

	// Dir is the working directory for the shell; relative config paths and
	// relative paths inside the config resolve against it.
	Dir string
}

// Source runs the shell in a clean environment and returns every variable
// the file defined, including ones whose value matches the caller's
// environment.
func (s ShellSourcer) Source(ctx context.Context, path string) (Vars, error) {
	if err := checkReadable(s.Dir, path); err != nil {
		return Vars{}, err
	}

	shell := s.Shell
	if shell == "" {
		shell = "bash"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", sourceScript, "pipesmoke-source", path)
	cmd.Dir = s.Dir
	inherited := make(map[string]string, len(passedVars))
	for _, k := range passedVars {
		if v, ok := os.LookupEnv(k); ok {
			inherited[k] = v
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	if cmd.Env == nil {
		cmd.Env = []string{}
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return Vars{}, &ConfigError{
			Path:    path,
			Message: fmt.Sprintf("sourcing failed (%s)", msg),
			Err:     err,
		}
	}

	defined := make(map[string]string)
	for k, v := range parseEnvRecords(stdout.String()) {
		if ignoredShellVars[k] {
			continue
		}
		if old, ok := inherited[k]; ok && old == v {
			continue
		}
		defined[k] = v
	}
	return NewVars(path, defined), nil
}

// parseEnvRecords splits `env -0` output into a map.
func parseEnvRecords(out string) map[string]string {
	env := make(map[string]string)
	for _, rec := range strings.Split(out, "\x00") {
		if rec == "" {
			continue
		}
		k, v, ok := strings.Cut(rec, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

// Load sources path and validates the result against the experiment schema.
func Load(ctx context.Context, s Sourcer, path string) (Vars, error) {
	vars, err := s.Source(ctx, path)
	if err != nil {
		return Vars{}, err
	}
	if err := Validate(vars); err != nil {
		return Vars{}, err
	}
	return vars, nil
}

func checkReadable(dir, path string) error {
	if path == "" {
		return &ConfigError{Message: "no configuration selected"}
	}
	info, err := os.Stat(resolve(dir, path))
	if err != nil {
		msg := "cannot access file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "file not found"
		}
		return &ConfigError{Path: path, Message: msg, Err: err}
	}
	if info.IsDir() {
		return &ConfigError{Path: path, Message: "is a directory"}
	}
	return nil
}

func resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
