package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/stretchr/testify/require"
)

// TB is the part of testing.TB the file helpers use.
type TB interface {
	require.TestingT
	Helper()
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "mkdir %s", filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "write %s", path)
}

// WriteTree writes files (relative path -> content) under root.
func WriteTree(t TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, filepath.Join(root, rel), content)
	}
}

// ListTree returns the sorted, slash separated paths of all regular files
// under root. A missing root yields nil.
func ListTree(t TB, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	require.NoError(t, err, "walk %s", root)
	sort.Strings(files)
	return files
}
