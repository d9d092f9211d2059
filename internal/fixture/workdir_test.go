package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pipesmoke/internal/testutil"
)

func TestWorkDir_Reset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name:  "non-existent",
			setup: func(t *testing.T, dir string) {},
		},
		{
			name: "already empty",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(dir, 0755))
			},
		},
		{
			name: "partially populated",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, filepath.Join(dir, "embeddings", "part.bin"), "x")
			},
		},
		{
			name: "fully populated",
			setup: func(t *testing.T, dir string) {
				testutil.WriteTree(t, dir, map[string]string{
					"aligned/.done":              "",
					"oracles/train.actions":      "SHIFT",
					"features/train.en.roberta":  "0.1",
					"models/bart-seed42/last.pt": "ckpt",
					"models/bart-seed42/.hidden": "",
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "DATA", "wiki25")
			tt.setup(t, dir)

			w := NewWorkDir(dir)
			require.NoError(t, w.Reset())

			empty, err := w.Empty()
			require.NoError(t, err)
			assert.True(t, empty)

			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestWorkDir_ResetIdempotent(t *testing.T) {
	w := NewWorkDir(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, w.Reset())
	require.NoError(t, w.Reset())

	empty, err := w.Empty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestWorkDir_ResetLeavesSiblings(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "DATA", "wiki25", "stale"), "x")
	testutil.WriteFile(t, filepath.Join(root, "DATA", "other", "keep"), "y")

	require.NoError(t, NewWorkDir(filepath.Join(root, "DATA", "wiki25")).Reset())

	assert.Equal(t, []string{"other/keep"}, testutil.ListTree(t, filepath.Join(root, "DATA")))
}

func TestWorkDir_ResetRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	testutil.WriteFile(t, path, "not a dir")

	err := NewWorkDir(path).Reset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWorkDir_ResetRefusesRoot(t *testing.T) {
	for _, p := range []string{"", ".", "/"} {
		assert.Error(t, NewWorkDir(p).Reset(), "path %q", p)
	}
}

func TestWorkDir_Join(t *testing.T) {
	w := NewWorkDir("DATA/wiki25/")
	assert.Equal(t, "DATA/wiki25", w.Path())
	assert.Equal(t, filepath.Join("DATA", "wiki25", "models", "x"), w.Join("models", "x"))
}
