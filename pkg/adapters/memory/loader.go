package memory

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Loader implements ports.MatrixLoader over matrices built in code.
// It is mostly useful in tests and for embedding lattice as a library.
type Loader struct {
	matrices map[string]*domain.Matrix
}

var _ ports.MatrixLoader = (*Loader)(nil)

// NewLoader creates a loader serving the given matrices keyed by path.
func NewLoader(matrices map[string]*domain.Matrix) *Loader {
	m := make(map[string]*domain.Matrix, len(matrices))
	for k, v := range matrices {
		m[k] = v
	}
	return &Loader{matrices: m}
}

// Load returns the validated matrix registered for path.
func (l *Loader) Load(path string) (*domain.Matrix, error) {
	m, ok := l.matrices[path]
	if !ok {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: no matrix registered", domain.ErrInvalidConfig)}
	}
	if err := m.Validate(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return m, nil
}
