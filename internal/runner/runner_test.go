package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "bash", Command{Name: "bash"}.String())
	assert.Equal(t, "bash run/run_experiment.sh cfg.sh",
		Command{Name: "bash", Args: []string{"run/run_experiment.sh", "cfg.sh"}}.String())
}

func TestFromArgv(t *testing.T) {
	c := FromArgv([]string{"bash", "run/run_experiment.sh"}, "configs/a.sh")
	assert.Equal(t, "bash", c.Name)
	assert.Equal(t, []string{"run/run_experiment.sh", "configs/a.sh"}, c.Args)

	assert.Equal(t, Command{}, FromArgv(nil))
}

func TestExecRunner_Success(t *testing.T) {
	requireSh(t)
	dir := t.TempDir()
	stdout := &bytes.Buffer{}

	r := ExecRunner{Stdout: stdout}
	err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello; touch marker"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout.String())

	_, err = os.Stat(filepath.Join(dir, "marker"))
	assert.NoError(t, err)
}

func TestExecRunner_ExitStatus(t *testing.T) {
	requireSh(t)
	stderr := &bytes.Buffer{}

	r := ExecRunner{Stderr: stderr}
	err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.Error(t, err)

	var exitErr *ExitStatusError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "boom\n", stderr.String())
}

func TestExecRunner_Env(t *testing.T) {
	requireSh(t)
	stdout := &bytes.Buffer{}

	r := ExecRunner{Stdout: stdout}
	err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf %s \"$PIPESMOKE_TEST\""},
		Env:  []string{"PIPESMOKE_TEST=yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "yes", stdout.String())
}

func TestExecRunner_MissingBinary(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), Command{Name: "pipesmoke-definitely-missing"})
	require.Error(t, err)

	var exitErr *ExitStatusError
	assert.False(t, errors.As(err, &exitErr))
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty command")
}
