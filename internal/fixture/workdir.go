// Package fixture resets the working data directory and seeds it with
// precomputed mock artifacts so expensive pipeline stages can be skipped.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WorkDir is the working data directory handed to every component that
// touches pipeline state. Only the provisioner and the delegated runner write
// to it.
type WorkDir struct {
	path string
}

// NewWorkDir returns a handle for path. The directory need not exist.
func NewWorkDir(path string) WorkDir {
	return WorkDir{path: filepath.Clean(path)}
}

// Path returns the directory path.
func (w WorkDir) Path() string {
	return w.path
}

// Join returns a path inside the directory.
func (w WorkDir) Join(elem ...string) string {
	return filepath.Join(append([]string{w.path}, elem...)...)
}

// Reset removes everything inside the directory and leaves it existing and
// empty. A missing directory is created.
func (w WorkDir) Reset() error {
	if w.path == "" || w.path == "." || w.path == string(filepath.Separator) {
		return fmt.Errorf("refusing to reset %q", w.path)
	}

	info, err := os.Lstat(w.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("stat work dir: %w", err)
	case !info.IsDir():
		return fmt.Errorf("work dir %s is not a directory", w.path)
	default:
		entries, err := os.ReadDir(w.path)
		if err != nil {
			return fmt.Errorf("read work dir: %w", err)
		}
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(w.path, e.Name())); err != nil {
				return fmt.Errorf("clear work dir: %w", err)
			}
		}
	}

	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	return nil
}

// Empty reports whether the directory has no entries. A missing directory
// counts as empty.
func (w WorkDir) Empty() (bool, error) {
	entries, err := os.ReadDir(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
