package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, Command{Line: "flake8"}, ParseCommand("  flake8 "))
	assert.Equal(t, Command{Line: "coverage erase", IgnoreErrors: true}, ParseCommand("- coverage erase"))
	assert.Equal(t, Command{Line: "-v"}, ParseCommand("-v"))
	assert.Equal(t, "- coverage erase", ParseCommand("- coverage erase").String())
}

func TestCatalog_ResolveEveryGroup(t *testing.T) {
	m := sampleMatrix(t)
	for _, name := range m.Groups.Names() {
		t.Run(name, func(t *testing.T) {
			rg, err := m.Groups.Resolve(name)
			require.NoError(t, err)
			assert.NotEmpty(t, rg.Commands)
			assert.NotNil(t, rg.Deps)
		})
	}
}

func TestCatalog_AllRecommendedConcatenation(t *testing.T) {
	m := sampleMatrix(t)

	var want []GroupCommand
	for _, member := range []string{GroupFlakes, GroupUnit, GroupExamples} {
		rg, err := m.Groups.Resolve(member)
		require.NoError(t, err)
		want = append(want, rg.Commands...)
	}

	all, err := m.Groups.Resolve(GroupAllRecommended)
	require.NoError(t, err)
	assert.Equal(t, want, all.Commands)

	seen := map[string]bool{}
	for _, c := range all.Commands {
		key := c.Group + "|" + c.Line
		assert.False(t, seen[key], "duplicate command %s", key)
		seen[key] = true
	}

	assert.Equal(t, []string{".[tests]", ".[examples]", ".[recommended]"}, all.Deps)
	assert.Equal(t, []string{"TRAVIS", "TRAVIS_*"}, all.PassEnv)
}

func TestCatalog_ResolveErrors(t *testing.T) {
	t.Run("Unknown Group", func(t *testing.T) {
		m := sampleMatrix(t)
		_, err := m.Groups.Resolve("bogus")
		assert.ErrorIs(t, err, ErrUnknownGroup)
	})

	t.Run("Unknown Member", func(t *testing.T) {
		c, err := NewCatalog(TestGroup{Name: "all", Compose: []string{"missing"}})
		require.NoError(t, err)
		_, err = c.Resolve("all")
		assert.ErrorIs(t, err, ErrUnknownGroup)
	})

	t.Run("Cycle", func(t *testing.T) {
		c, err := NewCatalog(
			TestGroup{Name: "a", Compose: []string{"b"}},
			TestGroup{Name: "b", Compose: []string{"a"}},
		)
		require.NoError(t, err)
		_, err = c.Resolve("a")
		assert.ErrorIs(t, err, ErrCompositeCycle)
	})

	t.Run("Duplicate Member", func(t *testing.T) {
		c, err := NewCatalog(
			TestGroup{Name: "x", Commands: cmds("true")},
			TestGroup{Name: "all", Compose: []string{"x", "x"}},
		)
		require.NoError(t, err)
		_, err = c.Resolve("all")
		assert.ErrorIs(t, err, ErrDuplicateMember)
	})

	t.Run("Diamond", func(t *testing.T) {
		c, err := NewCatalog(
			TestGroup{Name: "x", Commands: cmds("true")},
			TestGroup{Name: "left", Compose: []string{"x"}},
			TestGroup{Name: "right", Compose: []string{"x"}},
			TestGroup{Name: "all", Compose: []string{"left", "right"}},
		)
		require.NoError(t, err)
		_, err = c.Resolve("all")
		assert.ErrorIs(t, err, ErrDuplicateMember)
	})

	t.Run("Empty", func(t *testing.T) {
		c, err := NewCatalog(TestGroup{Name: "nothing"})
		require.NoError(t, err)
		_, err = c.Resolve("nothing")
		assert.ErrorIs(t, err, ErrEmptyGroup)
	})
}

func TestNewCatalog_Rejects(t *testing.T) {
	_, err := NewCatalog(TestGroup{Name: "a", Commands: cmds("true")}, TestGroup{Name: "a", Commands: cmds("true")})
	assert.ErrorIs(t, err, ErrDuplicateGroup)

	_, err = NewCatalog(TestGroup{Name: "has-dash"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCatalog(TestGroup{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
