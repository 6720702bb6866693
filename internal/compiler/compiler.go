package compiler

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/lint"
)

// DefaultInstallCommand installs a dependency set when the latticefile does not say how.
const DefaultInstallCommand = "pip install {deps}"

// Compile maps a parsed document onto a validated domain.Matrix.
// path locates the latticefile; relative working directories are resolved
// against its directory. Errors are *domain.ConfigError values.
func Compile(doc *Document, path string) (*domain.Matrix, error) {
	fail := func(field string, err error) error {
		return &domain.ConfigError{Path: path, Field: field, Err: err}
	}

	groups := make([]domain.TestGroup, 0, len(doc.Groups))
	for _, name := range groupOrder(doc) {
		g := doc.Groups[name]
		groups = append(groups, domain.TestGroup{
			Name:        name,
			Description: strings.TrimSpace(g.Description),
			Deps:        lines(g.Deps),
			Commands:    commands(g.Commands),
			PassEnv:     words(g.PassEnv),
			SetEnv:      g.SetEnv,
			Compose:     words(g.Compose),
		})
	}
	catalog, err := domain.NewCatalog(groups...)
	if err != nil {
		return nil, fail("groups", err)
	}

	m := &domain.Matrix{
		Axes:           axes(doc.Axes),
		EnvList:        lines(doc.EnvList),
		Groups:         catalog,
		Modes:          modes(doc.Modes),
		InstallCommand: strings.TrimSpace(doc.InstallCommand),
		PassEnv:        words(doc.PassEnv),
		SetEnv:         doc.SetEnv,
		WorkDir:        workDir(doc.Latticefile, path),
		Lint:           lintRule(doc.Lint),
	}
	if m.InstallCommand == "" {
		m.InstallCommand = DefaultInstallCommand
	}

	if _, err := lint.New(m.Lint); err != nil {
		return nil, fail("lint", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fail("", err)
	}
	return m, nil
}

func groupOrder(doc *Document) []string {
	order := make([]string, 0, len(doc.Groups))
	for _, name := range doc.GroupOrder {
		if _, ok := doc.Groups[name]; ok && !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	// Documents built in code have no recorded order.
	var rest []string
	for name := range doc.Groups {
		if !slices.Contains(order, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func axes(in map[string][]string) []domain.Axis {
	var out []domain.Axis
	for _, name := range domain.AxisOrder {
		if values, ok := in[name]; ok {
			out = append(out, domain.Axis{Name: name, Values: words(values)})
		}
	}
	// Unknown axes are kept so validation can report them.
	var extra []string
	for name := range in {
		if !slices.Contains(domain.AxisOrder, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, domain.Axis{Name: name, Values: words(in[name])})
	}
	return out
}

func modes(in map[string]dto.Mode) map[string]domain.ModeSpec {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]domain.ModeSpec, len(in))
	for name, m := range in {
		out[name] = domain.ModeSpec{
			Name:     name,
			Install:  commands(m.Install),
			Commands: commands(m.Commands),
			Variants: words(m.Variants),
		}
	}
	return out
}

func lintRule(in *dto.Lint) domain.LintRule {
	if in == nil {
		return lint.DefaultRule()
	}
	rule := domain.LintRule{
		Include: list(in.Include),
		Exclude: list(in.Exclude),
		Ignore:  list(in.Ignore),
	}
	if len(rule.Include) == 0 {
		rule.Include = slices.Clone(lint.DefaultInclude)
	}
	return rule
}

func workDir(f dto.Latticefile, path string) string {
	wd := f.WorkDir
	if wd == "" {
		wd = f.ChangeDir
	}
	base := ""
	if path != "" {
		base = filepath.Dir(path)
	}
	switch {
	case wd == "":
		return base
	case filepath.IsAbs(wd) || base == "":
		return filepath.Clean(wd)
	default:
		return filepath.Join(base, wd)
	}
}

// commands reads one command per line; blank lines and "#" comments are skipped.
func commands(in []string) []domain.Command {
	var out []domain.Command
	for _, l := range lines(in) {
		if strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, domain.ParseCommand(l))
	}
	return out
}

// lines splits multi-line entries and drops blanks.
func lines(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, l := range strings.Split(entry, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

// words splits entries on whitespace and commas.
func words(in []string) []string {
	var out []string
	for _, entry := range in {
		out = append(out, strings.FieldsFunc(entry, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})...)
	}
	return out
}

// list splits comma separated entries, the way flake8 writes exclude and ignore.
func list(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

