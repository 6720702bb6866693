package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_WalkFS(t *testing.T) {
	fsys := fstest.MapFS{
		"setup.py":                        {},
		"holoviews/__init__.py":           {},
		"holoviews/element/chart.py":      {},
		"holoviews/element/README.md":     {},
		".git/hooks/post.py":              {},
		"build/lib/holoviews/__init__.py": {},
		"doc/conf.py":                     {},
		".ipynb_checkpoints/Bars.py":      {},
	}

	got, err := defaultFilter(t).WalkFS(context.Background(), fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"holoviews/__init__.py",
		"holoviews/element/chart.py",
		"setup.py",
	}, got)
}

func TestFilter_Walk(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"pkg/mod.py", "build/out.py", "pkg/notes.txt"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	got, err := defaultFilter(t).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/mod.py"}, got)
}

func TestFilter_WalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := defaultFilter(t).WalkFS(ctx, fstest.MapFS{"a.py": {}})
	assert.ErrorIs(t, err, context.Canceled)
}
