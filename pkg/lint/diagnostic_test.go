package lint_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flakesOutput = `holoviews/core/data.py:12:1: F401 'numpy' imported but unused
holoviews/core/data.py:80:80: E501 line too long (88 > 79 characters)
build/lib/holoviews/core.py:3:1: F401 'os' imported but unused
not a diagnostic line
holoviews/plotting/bokeh/chart.py:7:5: W503 line break before binary operator
`

func TestParseDiagnostics(t *testing.T) {
	diags, err := lint.ParseDiagnostics(strings.NewReader(flakesOutput))
	require.NoError(t, err)
	require.Len(t, diags, 4)

	assert.Equal(t, lint.Diagnostic{
		Path:    "holoviews/core/data.py",
		Line:    12,
		Col:     1,
		Code:    "F401",
		Message: "'numpy' imported but unused",
	}, diags[0])
	assert.Equal(t, "holoviews/core/data.py:12:1: F401 'numpy' imported but unused", diags[0].String())
}

func TestFilterDiagnostics(t *testing.T) {
	diags, err := lint.ParseDiagnostics(strings.NewReader(flakesOutput))
	require.NoError(t, err)

	kept := defaultFilter(t).FilterDiagnostics(diags)
	require.Len(t, kept, 1)
	assert.Equal(t, "F401", kept[0].Code)
	assert.Equal(t, "holoviews/core/data.py", kept[0].Path)
}
