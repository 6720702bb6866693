package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// DefaultFile is the latticefile looked up when none is given.
const DefaultFile = "lattice.yaml"

// Loader reads latticefiles from the local filesystem.
type Loader struct {
	parser *compiler.Parser
}

var _ ports.MatrixLoader = (*Loader)(nil)

// NewLoader creates a filesystem loader.
func NewLoader() *Loader {
	return &Loader{parser: compiler.NewParser()}
}

// Load parses, compiles and validates the latticefile at path.
// Every error is a *domain.ConfigError wrapping domain.ErrInvalidConfig or a
// more specific sentinel.
func (l *Loader) Load(path string) (*domain.Matrix, error) {
	if path == "" {
		path = DefaultFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)}
	}
	return l.Parse(data, abs)
}

// Parse compiles in-memory latticefile content as if it lived at path.
func (l *Loader) Parse(data []byte, path string) (*domain.Matrix, error) {
	doc, err := l.parser.Parse(data)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	m, err := compiler.Compile(doc, path)
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return m, nil
}
