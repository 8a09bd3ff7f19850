package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteComponents writes component documents, keyed by relative path, under dir.
func WriteComponents(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	}
}

// ComponentDir returns a temporary directory holding the given component
// documents.
func ComponentDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteComponents(t, dir, files)
	return dir
}

// SetupTestRepo initializes a Loam repository in a temporary directory and
// then writes files into it. It returns the absolute path and the
// repository, and fails the test immediately on error.
func SetupTestRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	WriteComponents(t, absPath, files)
	return absPath, repo
}
