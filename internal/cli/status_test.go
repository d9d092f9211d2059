package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pipesmoke/internal/status"
	"github.com/roach88/pipesmoke/internal/testutil"
)

func TestStatus_Text(t *testing.T) {
	root, settingsPath := smokeProject(t)
	testutil.WriteTree(t, root, map[string]string{
		"DATA/wiki25/models/smoke-seed42/checkpoint1.pt":                     "",
		"DATA/wiki25/models/smoke-seed42/epoch_tests/dec-checkpoint1.smatch": "F-score: 0.5",
	})

	stdout, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--color", "never")
	require.NoError(t, err)
	assert.Equal(t,
		"[ 1/2  ] DATA/wiki25/models/smoke-seed42\n"+
			"[ 1/2  ] DATA/wiki25/models/smoke-seed42\n"+
			"[ pend ] DATA/wiki25/models/smoke-seed42/checkpoint_best.pt\n\n",
		stdout.String())
}

func TestStatus_JSON(t *testing.T) {
	_, settingsPath := smokeProject(t)

	stdout, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []status.Line `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, status.Pending, resp.Data[0].Level)
	assert.Equal(t, "0/2", resp.Data[0].Tag)
}

func TestStatus_Pending(t *testing.T) {
	root, settingsPath := smokeProject(t)
	testutil.WriteFile(t, filepath.Join(root, "DATA/wiki25/models/smoke-seed42/checkpoint2.pt"), "")

	stdout, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--seed", "42", "--pending", "--ready")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "DATA/wiki25/models/smoke-seed42/checkpoint2.pt")+"\n", stdout.String())
}

func TestStatus_UnknownSeed(t *testing.T) {
	_, settingsPath := smokeProject(t)

	_, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--seed", "9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatus_Results(t *testing.T) {
	root, settingsPath := smokeProject(t)
	testutil.WriteTree(t, root, map[string]string{
		"DATA/wiki25/models/smoke-seed42/epoch_tests/dec-checkpoint1.smatch":                     "F-score: 0.61",
		"DATA/wiki25/models/smoke-seed42/epoch_tests/dec-checkpoint2.smatch":                     "F-score: 0.64",
		"DATA/wiki25/models/smoke-seed42/beam10/valid_checkpoint_wiki.smatch_top5-avg.pt.smatch": "F-score: 0.66",
	})

	stdout, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--results", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []status.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].BestScore().Epoch)
	require.NotNil(t, resp.Data[0].Top5)
	assert.InDelta(t, 66.0, *resp.Data[0].Top5, 1e-9)

	stdout, _, err = execute(NewRootCommand(), "status", "--settings", settingsPath, "--results", "--nbest", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "2/2")
	assert.Contains(t, stdout.String(), "64.0")
}

func TestStatus_ResultsAndPendingConflict(t *testing.T) {
	_, settingsPath := smokeProject(t)

	_, _, err := execute(NewRootCommand(), "status", "--settings", settingsPath, "--seed", "42", "--pending", "--results")
	require.Error(t, err)
}
