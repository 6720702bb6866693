package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_Plan(t *testing.T) {
	m := sampleMatrix(t)

	t.Run("Unit Dev", func(t *testing.T) {
		sel, err := m.Resolve("py36-unit-default-dev")
		require.NoError(t, err)

		plan, err := m.Plan(sel, []string{"-x"})
		require.NoError(t, err)

		install := plan.StepsIn(PhaseInstall)
		require.Len(t, install, 2)
		assert.Equal(t, "pip install '.[tests]'", install[0].Line)
		assert.Equal(t, "pip install -e .", install[1].Line)
		assert.Empty(t, plan.StepsIn(PhaseSetup))

		tests := plan.StepsIn(PhaseTest)
		require.Len(t, tests, 1)
		assert.Equal(t, "nosetests holoviews.tests --with-coverage -x", tests[0].Line)
		assert.Equal(t, GroupUnit, tests[0].Group)

		assert.Equal(t, "py36-unit-default-dev", plan.Env[EnvSelectorVar])
		assert.Equal(t, []string{"TRAVIS", "TRAVIS_*"}, plan.PassEnv)
		assert.Equal(t, "/work", plan.WorkDir)
	})

	t.Run("Examples Pkg Runs Install Examples", func(t *testing.T) {
		sel := Selector{Interpreter: "py37", Group: GroupExamples, Variant: "examples", Mode: ModePkg}
		plan, err := m.Plan(sel, nil)
		require.NoError(t, err)

		setup := plan.StepsIn(PhaseSetup)
		require.Len(t, setup, 1)
		assert.Equal(t, "holoviews --install-examples", setup[0].Line)
	})

	t.Run("Default Variant Pkg Skips Setup", func(t *testing.T) {
		sel := Selector{Interpreter: "py37", Group: GroupExamples, Variant: "default", Mode: ModePkg}
		plan, err := m.Plan(sel, nil)
		require.NoError(t, err)
		assert.Empty(t, plan.StepsIn(PhaseSetup))
	})

	t.Run("Composite Order", func(t *testing.T) {
		sel := Selector{Interpreter: "py36", Group: GroupAllRecommended, Variant: "default", Mode: ModeDev}
		plan, err := m.Plan(sel, nil)
		require.NoError(t, err)

		var groups []string
		for _, s := range plan.StepsIn(PhaseTest) {
			groups = append(groups, s.Group)
		}
		assert.Equal(t, []string{GroupFlakes, GroupFlakes, GroupUnit, GroupExamples}, groups)
	})

	t.Run("Deps Without Install Command", func(t *testing.T) {
		m := sampleMatrix(t)
		m.InstallCommand = ""
		_, err := m.Plan(Selector{Interpreter: "py36", Group: GroupUnit, Variant: "default", Mode: ModeDev}, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("SetEnv Substitution", func(t *testing.T) {
		m := sampleMatrix(t)
		m.SetEnv = map[string]string{"REPORT": "{workdir}/{envname}.xml"}
		plan, err := m.Plan(Selector{Interpreter: "py36", Group: GroupFlakes, Variant: "default", Mode: ModeDev}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/work/py36-flakes-default-dev.xml", plan.Env["REPORT"])
	})
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "numpy", ShellQuote("numpy"))
	assert.Equal(t, "'bokeh>=1.0'", ShellQuote("bokeh>=1.0"))
	assert.Equal(t, "'.[tests]'", ShellQuote(".[tests]"))
	assert.Equal(t, `'it'\''s'`, ShellQuote("it's"))
	assert.Equal(t, "''", ShellQuote(""))
}
