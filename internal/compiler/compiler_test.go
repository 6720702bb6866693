package compiler_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src, path string) (*domain.Matrix, error) {
	t.Helper()
	doc, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	return compiler.Compile(doc, path)
}

func TestCompile(t *testing.T) {
	src := `
envlist: "{py36,py37}-{flakes,unit}-default-dev"
axes:
  interpreter: py36, py37
groups:
  flakes:
    deps: |
      flake8
      nbsmoke
    commands: |
      flake8
      # lint notebooks too
      - pytest --nbsmoke-lint
  unit:
    passenv: TRAVIS TRAVIS_*
    commands: pytest {posargs}
modes:
  dev:
    install: pip install -e .
lint:
  exclude: .git,build
  ignore: E,W
`
	m, err := compile(t, src, filepath.Join("proj", "lattice.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"flakes", "unit"}, m.Groups.Names())
	flakes, _ := m.Groups.Get("flakes")
	assert.Equal(t, []string{"flake8", "nbsmoke"}, flakes.Deps)
	assert.Equal(t, []domain.Command{
		{Line: "flake8"},
		{Line: "pytest --nbsmoke-lint", IgnoreErrors: true},
	}, flakes.Commands)

	unit, _ := m.Groups.Get("unit")
	assert.Equal(t, []string{"TRAVIS", "TRAVIS_*"}, unit.PassEnv)

	assert.Equal(t, []domain.Axis{{Name: domain.AxisInterpreter, Values: []string{"py36", "py37"}}}, m.Axes)
	assert.Equal(t, compiler.DefaultInstallCommand, m.InstallCommand)
	assert.Equal(t, "proj", m.WorkDir)
	assert.Equal(t, []domain.Command{{Line: "pip install -e ."}}, m.Modes["dev"].Install)

	assert.Equal(t, lint.DefaultInclude, m.Lint.Include)
	assert.Equal(t, []string{".git", "build"}, m.Lint.Exclude)
	assert.Equal(t, []string{"E", "W"}, m.Lint.Ignore)

	envs, err := m.Environments()
	require.NoError(t, err)
	assert.Len(t, envs, 4)
}

func TestCompile_Defaults(t *testing.T) {
	m, err := compile(t, "groups:\n  unit:\n    commands: [pytest]\n", "")
	require.NoError(t, err)

	assert.Equal(t, lint.DefaultRule(), m.Lint)
	assert.Empty(t, m.WorkDir)
	assert.Nil(t, m.Modes)
}

func TestCompile_WorkDir(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("x", "lattice.yaml"))
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Relative", "workdir: sub\n", filepath.Join(filepath.Dir(abs), "sub")},
		{"ChangeDirAlias", "changedir: other\n", filepath.Join(filepath.Dir(abs), "other")},
		{"Absolute", "workdir: " + filepath.ToSlash(filepath.Dir(abs)) + "\n", filepath.Dir(abs)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := compile(t, tt.src+"groups:\n  unit:\n    commands: [pytest]\n", abs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.WorkDir)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"NoGroups", "envlist: [a-b-c-d]\n", domain.ErrInvalidConfig},
		{"EmptyGroup", "groups:\n  unit:\n    description: nothing\n", domain.ErrEmptyGroup},
		{"Cycle", "groups:\n  a:\n    compose: [b]\n  b:\n    compose: [a]\n", domain.ErrCompositeCycle},
		{"UnknownMember", "groups:\n  a:\n    compose: [ghost]\n", domain.ErrUnknownGroup},
		{"DashInName", "groups:\n  my-group:\n    commands: [x]\n", domain.ErrInvalidConfig},
		{"BadEnvList", "envlist: [py36-bogus-default-dev]\ngroups:\n  unit:\n    commands: [x]\n", domain.ErrUnknownGroup},
		{"UnknownAxis", "axes:\n  arch: [x86]\ngroups:\n  unit:\n    commands: [x]\n", domain.ErrInvalidConfig},
		{"BadLintPattern", "lint:\n  exclude: \"[oops\"\ngroups:\n  unit:\n    commands: [x]\n", domain.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.src, "lattice.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "lattice.yaml", cfgErr.Path)
		})
	}
}

func TestCompile_CodeBuiltDocument(t *testing.T) {
	doc := &compiler.Document{Latticefile: dto.Latticefile{
		Groups: map[string]dto.Group{
			"b": {Commands: []string{"x"}},
			"a": {Commands: []string{"y"}},
		},
	}}
	m, err := compiler.Compile(doc, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Groups.Names(), "without a recorded order groups are sorted")
}
