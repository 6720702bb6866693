package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405.000000000")

	newRecord := func(id string) *domain.RunRecord {
		started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		return &domain.RunRecord{
			ID:         id,
			Selector:   "py36-unit-default-dev",
			Status:     domain.RunFailed,
			StartedAt:  started,
			FinishedAt: started.Add(3 * time.Second),
			Steps: []domain.StepResult{
				{Phase: domain.PhaseInstall, Command: "pip install .", Duration: time.Second},
				{Phase: domain.PhaseTest, Group: "unit", Command: "pytest", ExitCode: 1, Output: "1 failed"},
				{Phase: domain.PhaseTest, Group: "unit", Command: "coverage report", Skipped: true},
			},
			Error: "command failed",
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := newRecord(runID)

		err := store.Save(ctx, rec)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Selector, loaded.Selector)
		assert.Equal(t, rec.Status, loaded.Status)
		assert.True(t, rec.StartedAt.Equal(loaded.StartedAt))
		require.Len(t, loaded.Steps, 3)
		assert.Equal(t, 1, loaded.Steps[1].ExitCode)
		assert.True(t, loaded.Steps[2].Skipped)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := newRecord(runID)
		rec.Status = domain.RunPassed
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunPassed, loaded.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newRecord(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, newRecord(id1)))
		require.NoError(t, store.Save(ctx, newRecord(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
