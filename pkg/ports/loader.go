package ports

import "github.com/aretw0/lattice/pkg/domain"

// MatrixLoader reads a test-matrix descriptor.
type MatrixLoader interface {
	// Load parses and validates the descriptor found at path.
	Load(path string) (*domain.Matrix, error)
}
