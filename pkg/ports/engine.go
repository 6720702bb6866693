package ports

import "github.com/aretw0/lattice/pkg/domain"

// MatrixInspector is the read-only surface exposed by the HTTP and MCP adapters.
// Running commands is deliberately not part of it.
type MatrixInspector interface {
	// Environments lists every environment of the matrix.
	Environments() ([]domain.Selector, error)

	// Groups lists the declared test groups in declaration order.
	Groups() []domain.TestGroup

	// Plan resolves a selector without executing anything.
	Plan(selector string, posargs []string) (domain.Plan, error)

	// LintPaths applies the lint rule to the given paths.
	LintPaths(paths []string) ([]string, error)

	// Runs returns the run history store, or nil when history is disabled.
	Runs() RunStore
}
