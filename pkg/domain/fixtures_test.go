package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cmds(lines ...string) []Command {
	out := make([]Command, len(lines))
	for i, l := range lines {
		out[i] = ParseCommand(l)
	}
	return out
}

// sampleMatrix mirrors the bundled latticefile.
func sampleMatrix(t *testing.T) *Matrix {
	t.Helper()
	catalog, err := NewCatalog(
		TestGroup{Name: GroupFlakes, Deps: []string{".[tests]"}, Commands: cmds("flake8", `pytest --nbsmoke-lint -k ".ipynb"`)},
		TestGroup{Name: GroupUnit, Deps: []string{".[tests]"}, PassEnv: []string{"TRAVIS", "TRAVIS_*"}, Commands: cmds("nosetests holoviews.tests --with-coverage {posargs}")},
		TestGroup{Name: GroupRegression, Deps: []string{".[tests]"}, Commands: cmds("pytest --nbsmoke-run -k .ipynb doc/reference")},
		TestGroup{Name: GroupExamples, Deps: []string{".[examples]"}, Commands: cmds("pytest --nbsmoke-run -k .ipynb examples")},
		TestGroup{Name: GroupAllRecommended, Deps: []string{".[recommended]"}, Compose: []string{GroupFlakes, GroupUnit, GroupExamples}},
	)
	require.NoError(t, err)

	return &Matrix{
		Axes: []Axis{
			{Name: AxisInterpreter, Values: []string{"py36", "py37"}},
			{Name: AxisVariant, Values: []string{"default", "examples"}},
		},
		EnvList: []string{"{py36,py37}-{flakes,unit,regression,examples,all_recommended}-{default}-{dev,pkg}"},
		Groups:  catalog,
		Modes: map[string]ModeSpec{
			ModeDev: {Name: ModeDev, Install: cmds("pip install -e .")},
			ModePkg: {Name: ModePkg, Install: cmds("pip install ."), Commands: cmds("holoviews --install-examples"), Variants: []string{"examples"}},
		},
		InstallCommand: "pip install {deps}",
		WorkDir:        "/work",
	}
}
