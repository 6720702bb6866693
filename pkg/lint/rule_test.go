package lint_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFilter(t *testing.T) *lint.Filter {
	t.Helper()
	rule := lint.DefaultRule()
	rule.Ignore = []string{"E", "W"}
	f, err := lint.New(rule)
	require.NoError(t, err)
	return f
}

func TestFilter_DefaultExcludes(t *testing.T) {
	f := defaultFilter(t)

	got := f.Filter([]string{
		".git/config",
		".git/hooks/pre-commit.py",
		"build/lib/holoviews/core.py",
		"holoviews/element/chart.py",
	})
	assert.Equal(t, []string{"holoviews/element/chart.py"}, got)
}

func TestFilter_Keep(t *testing.T) {
	f := defaultFilter(t)

	tests := []struct {
		path string
		want bool
	}{
		{"setup.py", true},
		{"./holoviews/__init__.py", true},
		{"holoviews/__pycache__/core.cpython-37.py", false},
		{"sub/.git/x.py", false},
		{".tox/py36/lib/site.py", false},
		{"holoviews.egg/x.py", false},
		{"doc/conf.py", false},
		{"doc", false},
		{"documentation/conf.py", true},
		{"examples/reference/elements/bokeh/Bars.ipynb", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Keep(tt.path))
		})
	}
}

func TestFilter_SlashPatterns(t *testing.T) {
	f, err := lint.New(domain.LintRule{
		Include: []string{"holoviews/**/*.py"},
		Exclude: []string{"holoviews/tests", "**/generated_*.py"},
	})
	require.NoError(t, err)

	assert.True(t, f.Keep("holoviews/core/data.py"))
	assert.False(t, f.Keep("setup.py"), "include with a slash is matched against the full path")
	assert.False(t, f.Keep("holoviews/tests/test_core.py"))
	assert.False(t, f.Keep("holoviews/core/generated_ops.py"))
	assert.False(t, f.Keep("other/holoviews/tests.py"), "slash includes are anchored at the root")
}

func TestNew(t *testing.T) {
	t.Run("EmptyIncludeDefaults", func(t *testing.T) {
		f, err := lint.New(domain.LintRule{})
		require.NoError(t, err)
		assert.Equal(t, lint.DefaultInclude, f.Rule().Include)
		assert.True(t, f.Keep("a/b.py"))
	})

	t.Run("BadPattern", func(t *testing.T) {
		_, err := lint.New(domain.LintRule{Exclude: []string{"[unclosed"}})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("BlankIgnore", func(t *testing.T) {
		_, err := lint.New(domain.LintRule{Ignore: []string{" "}})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("DefaultRuleIsACopy", func(t *testing.T) {
		r := lint.DefaultRule()
		r.Exclude[0] = "changed"
		assert.Equal(t, ".git", lint.DefaultExclude[0])
	})
}

func TestFilter_Suppressed(t *testing.T) {
	f, err := lint.New(domain.LintRule{Ignore: []string{"E", "W503"}})
	require.NoError(t, err)

	assert.True(t, f.Suppressed("E501"))
	assert.True(t, f.Suppressed("W503"))
	assert.False(t, f.Suppressed("W504"))
	assert.False(t, f.Suppressed("F401"))
}
