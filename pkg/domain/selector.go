package domain

import (
	"fmt"
	"strings"
)

// SelectorSeparator joins the factors of a selector.
const SelectorSeparator = "-"

// Axis names, in selector order.
const (
	AxisInterpreter = "interpreter"
	AxisGroup       = "group"
	AxisVariant     = "variant"
	AxisMode        = "mode"
)

// AxisOrder is the position of each axis inside a selector.
var AxisOrder = []string{AxisInterpreter, AxisGroup, AxisVariant, AxisMode}

// Packaging modes.
const (
	ModeDev = "dev"
	ModePkg = "pkg"
)

// Selector addresses one environment of the matrix.
type Selector struct {
	Interpreter string `json:"interpreter"`
	Group       string `json:"group"`
	Variant     string `json:"variant"`
	Mode        string `json:"mode"`
}

// ParseSelector splits "{interpreter}-{group}-{variant}-{mode}" into its factors.
// It only checks the shape; Matrix.Resolve checks the factors against the axes.
func ParseSelector(s string) (Selector, error) {
	raw := strings.TrimSpace(s)
	parts := strings.Split(raw, SelectorSeparator)
	if len(parts) != len(AxisOrder) {
		return Selector{}, fmt.Errorf("%w: %q must have the form {interpreter}-{group}-{variant}-{mode}", ErrInvalidSelector, s)
	}
	for i, p := range parts {
		if p == "" {
			return Selector{}, fmt.Errorf("%w: %q has an empty %s factor", ErrInvalidSelector, s, AxisOrder[i])
		}
	}
	return Selector{
		Interpreter: parts[0],
		Group:       parts[1],
		Variant:     parts[2],
		Mode:        parts[3],
	}, nil
}

// String renders the canonical selector form.
func (s Selector) String() string {
	return strings.Join(s.Factors(), SelectorSeparator)
}

// Factors returns the selector values in AxisOrder.
func (s Selector) Factors() []string {
	return []string{s.Interpreter, s.Group, s.Variant, s.Mode}
}

// Factor returns the value of the named axis.
func (s Selector) Factor(axis string) string {
	switch axis {
	case AxisInterpreter:
		return s.Interpreter
	case AxisGroup:
		return s.Group
	case AxisVariant:
		return s.Variant
	case AxisMode:
		return s.Mode
	}
	return ""
}
