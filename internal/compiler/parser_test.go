package compiler_test

import (
	"testing"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	src := `
groups:
  unit:
    commands: pytest
  flakes:
    commands: [flake8]
    passenv: TRAVIS TRAVIS_*
setenv:
  PYTHONHASHSEED: 0
`
	doc, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"unit", "flakes"}, doc.GroupOrder)
	assert.Equal(t, []string{"pytest"}, doc.Groups["unit"].Commands, "a scalar decodes into a one element list")
	assert.Equal(t, []string{"flake8"}, doc.Groups["flakes"].Commands)
	assert.Equal(t, []string{"TRAVIS TRAVIS_*"}, doc.Groups["flakes"].PassEnv)
	assert.Equal(t, "0", doc.SetEnv["PYTHONHASHSEED"])
}

func TestParser_JSON(t *testing.T) {
	src := `{"groups": {"b": {"commands": ["x"]}, "a": {"commands": ["y"]}}}`
	doc, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, doc.GroupOrder)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Empty", ""},
		{"NotAMapping", "- a\n- b\n"},
		{"Syntax", "groups: [unclosed\n"},
		{"UnknownKey", "groups: {}\ncomands: [x]\n"},
		{"DuplicateKey", "groups:\n  unit: {commands: [a]}\n  unit: {commands: [b]}\n"},
		{"WrongType", "groups:\n  unit:\n    commands: {a: b}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.src))
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}
