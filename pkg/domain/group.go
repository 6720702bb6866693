package domain

import (
	"fmt"
	"strings"
)

// Well-known group names used by the bundled latticefile.
const (
	GroupFlakes         = "flakes"
	GroupUnit           = "unit"
	GroupRegression     = "regression"
	GroupExamples       = "examples"
	GroupAllRecommended = "all_recommended"
)

// Command is a single shell command line.
type Command struct {
	Line string `json:"line"`

	// IgnoreErrors keeps the group going when this command fails.
	// In a latticefile it is written as a leading "-".
	IgnoreErrors bool `json:"ignore_errors,omitempty"`
}

// ParseCommand reads a command line, honouring the "-" ignore-errors prefix.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "-") && len(trimmed) > 1 && trimmed[1] == ' ' {
		return Command{Line: strings.TrimSpace(trimmed[1:]), IgnoreErrors: true}
	}
	return Command{Line: trimmed}
}

// String renders the command the way it is written in a latticefile.
func (c Command) String() string {
	if c.IgnoreErrors {
		return "- " + c.Line
	}
	return c.Line
}

// TestGroup is a named bundle of dependencies and commands.
type TestGroup struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Deps        []string          `json:"deps,omitempty"`
	Commands    []Command         `json:"commands,omitempty"`
	PassEnv     []string          `json:"passenv,omitempty"`
	SetEnv      map[string]string `json:"setenv,omitempty"`

	// Compose lists member groups whose commands run, in order, before Commands.
	Compose []string `json:"compose,omitempty"`
}

// IsComposite reports whether the group is built from other groups.
func (g TestGroup) IsComposite() bool {
	return len(g.Compose) > 0
}

// GroupCommand is a command tagged with the group that declared it.
type GroupCommand struct {
	Group string `json:"group"`
	Command
}

// ResolvedGroup is a group with its composition flattened.
type ResolvedGroup struct {
	Name     string            `json:"name"`
	Deps     []string          `json:"deps"`
	Commands []GroupCommand    `json:"commands"`
	PassEnv  []string          `json:"passenv,omitempty"`
	SetEnv   map[string]string `json:"setenv,omitempty"`
}

// Catalog holds the declared groups in declaration order.
type Catalog struct {
	groups map[string]TestGroup
	order  []string
}

// NewCatalog builds a catalog, rejecting empty or duplicated names.
func NewCatalog(groups ...TestGroup) (*Catalog, error) {
	c := &Catalog{groups: make(map[string]TestGroup, len(groups))}
	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("%w: group name is required", ErrInvalidConfig)
		}
		if strings.Contains(g.Name, SelectorSeparator) {
			return nil, fmt.Errorf("%w: group name %q must not contain %q", ErrInvalidConfig, g.Name, SelectorSeparator)
		}
		if _, exists := c.groups[g.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, g.Name)
		}
		c.groups[g.Name] = g
		c.order = append(c.order, g.Name)
	}
	return c, nil
}

// Names returns the group names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the declared (unresolved) group.
func (c *Catalog) Get(name string) (TestGroup, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// Len returns the number of groups.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Resolve flattens the named group into exactly one dependency set and one
// ordered command list. Composite members are expanded depth-first in the
// order they are declared.
func (c *Catalog) Resolve(name string) (ResolvedGroup, error) {
	rg := ResolvedGroup{Name: name, Deps: []string{}, Commands: []GroupCommand{}}
	if err := c.resolveInto(&rg, name, nil, map[string]bool{}); err != nil {
		return ResolvedGroup{}, err
	}
	if len(rg.Commands) == 0 {
		return ResolvedGroup{}, fmt.Errorf("%w: %s", ErrEmptyGroup, name)
	}
	rg.Deps = dedupe(rg.Deps)
	rg.PassEnv = dedupe(rg.PassEnv)
	return rg, nil
}

func (c *Catalog) resolveInto(rg *ResolvedGroup, name string, stack []string, expanded map[string]bool) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("%w: %s", ErrCompositeCycle, strings.Join(append(stack, name), " -> "))
		}
	}
	g, ok := c.groups[name]
	if !ok {
		if len(stack) == 0 {
			return fmt.Errorf("%w: %q (known: %s)", ErrUnknownGroup, name, strings.Join(c.order, ", "))
		}
		return fmt.Errorf("%w: %q referenced by %s", ErrUnknownGroup, name, stack[len(stack)-1])
	}
	if expanded[name] {
		return fmt.Errorf("%w: %s is reached more than once from %s", ErrDuplicateMember, name, stack[0])
	}
	expanded[name] = true
	stack = append(stack, name)

	seen := make(map[string]bool, len(g.Compose))
	for _, member := range g.Compose {
		if seen[member] {
			return fmt.Errorf("%w: %s lists %s more than once", ErrDuplicateMember, name, member)
		}
		seen[member] = true
		if err := c.resolveInto(rg, member, stack, expanded); err != nil {
			return err
		}
	}

	rg.Deps = append(rg.Deps, g.Deps...)
	rg.PassEnv = append(rg.PassEnv, g.PassEnv...)
	if len(g.SetEnv) > 0 {
		if rg.SetEnv == nil {
			rg.SetEnv = make(map[string]string, len(g.SetEnv))
		}
		for k, v := range g.SetEnv {
			rg.SetEnv[k] = v
		}
	}
	for _, cmd := range g.Commands {
		rg.Commands = append(rg.Commands, GroupCommand{Group: name, Command: cmd})
	}
	return nil
}

// dedupe keeps the first occurrence of each value.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
