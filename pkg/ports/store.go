package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// RunStore persists run records so runs can be inspected after the fact.
type RunStore interface {
	// Save persists the record under its ID, replacing any previous version.
	Save(ctx context.Context, rec *domain.RunRecord) error

	// Load retrieves a record by ID.
	// Returns domain.ErrRunNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored run IDs, oldest first.
	List(ctx context.Context) ([]string, error)
}
