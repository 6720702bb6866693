package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_DefaultDir(t *testing.T) {
	s := file.New("")
	assert.Equal(t, filepath.Join(".lattice", "runs"), s.BasePath)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	s := file.New(filepath.Join(t.TempDir(), "does-not-exist"))
	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_ListOrderAndNoise(t *testing.T) {
	dir := t.TempDir()
	s := file.New(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &domain.RunRecord{ID: "second"}))
	require.NoError(t, s.Save(ctx, &domain.RunRecord{ID: "first"}))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "first.json"), old, old))

	// Leftovers that must not show up as runs.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-x-123.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	s := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, s.Save(ctx, &domain.RunRecord{ID: id}), id)
		_, err := s.Load(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRunNotFound)
}
