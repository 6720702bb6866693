package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupProject creates a temporary project directory holding a lattice.yaml
// with the given content. It returns the absolute path to the latticefile.
// It fails the test immediately on error.
func SetupProject(t *testing.T, latticefile string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	path := filepath.Join(absPath, "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(latticefile), 0o644), "Failed to write latticefile")
	return path
}

// WriteFiles creates the given files (relative path to content) under root.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}
