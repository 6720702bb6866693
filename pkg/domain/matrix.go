package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Axis is one dimension of the environment matrix.
// An axis with no values accepts any non-empty factor.
type Axis struct {
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

// Allows reports whether v is a legal value of the axis.
func (a Axis) Allows(v string) bool {
	if len(a.Values) == 0 {
		return v != ""
	}
	return slices.Contains(a.Values, v)
}

// ModeSpec describes what a packaging mode adds to a plan.
type ModeSpec struct {
	Name string `json:"name"`

	// Install commands put the project itself in place (editable for dev, built package for pkg).
	Install []Command `json:"install,omitempty"`

	// Commands run after installation and before the group commands.
	Commands []Command `json:"commands,omitempty"`

	// Variants restricts Commands to the listed variants. Empty means every variant.
	Variants []string `json:"variants,omitempty"`
}

func (m ModeSpec) appliesTo(variant string) bool {
	return len(m.Variants) == 0 || slices.Contains(m.Variants, variant)
}

// LintRule restricts static analysis to source files.
type LintRule struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`

	// Ignore lists diagnostic code prefixes to suppress (e.g. "E", "W503").
	Ignore []string `json:"ignore,omitempty"`
}

// Matrix is the complete test-matrix descriptor.
type Matrix struct {
	Axes    []Axis
	EnvList []string
	Groups  *Catalog
	Modes   map[string]ModeSpec

	// InstallCommand installs a dependency set; "{deps}" is replaced by the
	// space separated dependencies.
	InstallCommand string

	PassEnv []string
	SetEnv  map[string]string
	WorkDir string
	Lint    LintRule
}

// Axis returns the named axis. The group axis defaults to the catalog names
// and the mode axis to the declared modes.
func (m *Matrix) Axis(name string) Axis {
	for _, a := range m.Axes {
		if a.Name == name && len(a.Values) > 0 {
			return a
		}
	}
	switch name {
	case AxisGroup:
		if m.Groups != nil {
			return Axis{Name: name, Values: m.Groups.Names()}
		}
	case AxisMode:
		return Axis{Name: name, Values: m.modeNames()}
	}
	return Axis{Name: name}
}

func (m *Matrix) modeNames() []string {
	if len(m.Modes) == 0 {
		return []string{ModeDev, ModePkg}
	}
	names := make([]string, 0, len(m.Modes))
	for _, known := range []string{ModeDev, ModePkg} {
		if _, ok := m.Modes[known]; ok {
			names = append(names, known)
		}
	}
	extra := make([]string, 0)
	for name := range m.Modes {
		if name != ModeDev && name != ModePkg {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// Resolve parses a selector and checks every factor against its axis.
// Unknown groups fail with ErrUnknownGroup; other unknown factors with ErrUnknownAxisValue.
func (m *Matrix) Resolve(raw string) (Selector, error) {
	sel, err := ParseSelector(raw)
	if err != nil {
		return Selector{}, err
	}
	if m.Groups == nil {
		return Selector{}, fmt.Errorf("%w: %q", ErrUnknownGroup, sel.Group)
	}
	if _, ok := m.Groups.Get(sel.Group); !ok {
		return Selector{}, fmt.Errorf("%w: %q in %q (known: %s)", ErrUnknownGroup, sel.Group, raw, strings.Join(m.Groups.Names(), ", "))
	}
	for _, name := range AxisOrder {
		axis := m.Axis(name)
		v := sel.Factor(name)
		if axis.Allows(v) {
			continue
		}
		if name == AxisGroup {
			return Selector{}, fmt.Errorf("%w: %q is not listed on the group axis (allowed: %s)", ErrUnknownGroup, v, strings.Join(axis.Values, ", "))
		}
		return Selector{}, fmt.Errorf("%w: %s %q in %q (allowed: %s)", ErrUnknownAxisValue, name, v, raw, strings.Join(axis.Values, ", "))
	}
	return sel, nil
}

// Environments returns every environment of the matrix. With an EnvList the
// patterns are brace-expanded in order; otherwise the full cross-product of
// the axes is returned. Duplicates are dropped.
func (m *Matrix) Environments() ([]Selector, error) {
	var names []string
	if len(m.EnvList) > 0 {
		for _, pattern := range m.EnvList {
			expanded, err := ExpandBraces(pattern)
			if err != nil {
				return nil, err
			}
			names = append(names, expanded...)
		}
	} else {
		var err error
		names, err = m.crossProduct()
		if err != nil {
			return nil, err
		}
	}

	out := make([]Selector, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		sel, err := m.Resolve(n)
		if err != nil {
			return nil, fmt.Errorf("envlist entry %q: %w", n, err)
		}
		if seen[sel.String()] {
			continue
		}
		seen[sel.String()] = true
		out = append(out, sel)
	}
	return out, nil
}

func (m *Matrix) crossProduct() ([]string, error) {
	combos := []string{""}
	for _, name := range AxisOrder {
		axis := m.Axis(name)
		if len(axis.Values) == 0 {
			return nil, fmt.Errorf("%w: axis %s has no values and no envlist is declared", ErrInvalidConfig, name)
		}
		next := make([]string, 0, len(combos)*len(axis.Values))
		for _, prefix := range combos {
			for _, v := range axis.Values {
				if prefix == "" {
					next = append(next, v)
				} else {
					next = append(next, prefix+SelectorSeparator+v)
				}
			}
		}
		combos = next
	}
	return combos, nil
}

// Validate checks the descriptor as a whole: every group resolves to a
// non-empty command list, composites are acyclic and every environment resolves.
func (m *Matrix) Validate() error {
	if m.Groups == nil || m.Groups.Len() == 0 {
		return fmt.Errorf("%w: no test groups declared", ErrInvalidConfig)
	}
	for _, name := range m.Groups.Names() {
		if _, err := m.Groups.Resolve(name); err != nil {
			return err
		}
	}
	for _, a := range m.Axes {
		if !slices.Contains(AxisOrder, a.Name) {
			return fmt.Errorf("%w: unknown axis %q", ErrInvalidConfig, a.Name)
		}
	}
	if _, err := m.Environments(); err != nil {
		return err
	}
	return nil
}

// ExpandBraces expands every "{a,b}" group of a pattern into the
// cross-product of its alternatives, left to right. Nested braces are not supported.
func ExpandBraces(pattern string) ([]string, error) {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		if strings.IndexByte(pattern, '}') >= 0 {
			return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidConfig, pattern)
		}
		return []string{strings.TrimSpace(pattern)}, nil
	}
	end := strings.IndexByte(pattern[open:], '}')
	if end < 0 {
		return nil, fmt.Errorf("%w: unbalanced '{' in %q", ErrInvalidConfig, pattern)
	}
	end += open
	body := pattern[open+1 : end]
	if strings.IndexByte(body, '{') >= 0 {
		return nil, fmt.Errorf("%w: nested braces in %q", ErrInvalidConfig, pattern)
	}

	rest, err := ExpandBraces(pattern[end+1:])
	if err != nil {
		return nil, err
	}
	prefix := pattern[:open]
	if strings.IndexByte(prefix, '}') >= 0 {
		return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidConfig, pattern)
	}

	alternatives := strings.Split(body, ",")
	out := make([]string, 0, len(alternatives)*len(rest))
	for _, alt := range alternatives {
		for _, r := range rest {
			out = append(out, strings.TrimSpace(prefix+strings.TrimSpace(alt)+r))
		}
	}
	return out, nil
}
