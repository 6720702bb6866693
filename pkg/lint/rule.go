package lint

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects Python sources.
var DefaultInclude = []string{"**/*.py"}

// DefaultExclude lists version control, cache and build output directories.
var DefaultExclude = []string{
	".git",
	"__pycache__",
	".tox",
	".eggs",
	"*.egg",
	"doc",
	"dist",
	"build",
	"_build",
	".ipynb_checkpoints",
}

// DefaultRule returns the rule used when a latticefile declares none.
func DefaultRule() domain.LintRule {
	return domain.LintRule{
		Include: slices.Clone(DefaultInclude),
		Exclude: slices.Clone(DefaultExclude),
	}
}

// Filter applies a lint rule to paths and diagnostics.
type Filter struct {
	rule domain.LintRule
}

// New validates every pattern of rule. An empty include list falls back to DefaultInclude.
func New(rule domain.LintRule) (*Filter, error) {
	if len(rule.Include) == 0 {
		rule.Include = slices.Clone(DefaultInclude)
	}
	for _, p := range slices.Concat(rule.Include, rule.Exclude) {
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			return nil, fmt.Errorf("%w: bad lint pattern %q", domain.ErrInvalidConfig, p)
		}
	}
	for _, code := range rule.Ignore {
		if strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("%w: empty ignore code", domain.ErrInvalidConfig)
		}
	}
	return &Filter{rule: rule}, nil
}

// Rule returns the rule in effect.
func (f *Filter) Rule() domain.LintRule {
	return f.rule
}

// Keep reports whether p is included and not excluded.
func (f *Filter) Keep(p string) bool {
	p = normalize(p)
	return f.Included(p) && !f.Excluded(p)
}

// Included reports whether p matches at least one include pattern. Patterns
// without a slash are matched against the base name.
func (f *Filter) Included(p string) bool {
	p = normalize(p)
	base := path.Base(p)
	for _, pattern := range f.rule.Include {
		target := p
		if !strings.Contains(pattern, "/") {
			target = base
		}
		if ok, _ := doublestar.Match(pattern, target); ok {
			return true
		}
	}
	return false
}

// Excluded reports whether p or one of its parent directories matches an exclude pattern.
func (f *Filter) Excluded(p string) bool {
	p = normalize(p)
	if p == "" || p == "." {
		return false
	}
	segments := strings.Split(p, "/")
	for _, pattern := range f.rule.Exclude {
		pattern = strings.Trim(normalize(pattern), "/")
		if pattern == "" {
			continue
		}
		if strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, p); ok {
				return true
			}
			if ok, _ := doublestar.Match(pattern+"/**", p); ok {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if ok, _ := doublestar.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

// Filter returns the paths to analyse, in input order.
func (f *Filter) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if f.Keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Suppressed reports whether a diagnostic code is silenced by the ignore list.
func (f *Filter) Suppressed(code string) bool {
	for _, prefix := range f.rule.Ignore {
		if strings.HasPrefix(code, strings.TrimSpace(prefix)) {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimSuffix(p, "/")
}
