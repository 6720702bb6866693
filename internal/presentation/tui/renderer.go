package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// PlanMarkdown describes a plan as a markdown document.
func PlanMarkdown(plan domain.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", plan.Selector)
	fmt.Fprintf(&b, "| axis | value |\n|---|---|\n")
	for _, axis := range domain.AxisOrder {
		fmt.Fprintf(&b, "| %s | `%s` |\n", axis, plan.Selector.Factor(axis))
	}

	if plan.WorkDir != "" {
		fmt.Fprintf(&b, "\nWorking directory: `%s`\n", plan.WorkDir)
	}

	if len(plan.Deps) > 0 {
		b.WriteString("\n## Dependencies\n\n")
		for _, d := range plan.Deps {
			fmt.Fprintf(&b, "- `%s`\n", d)
		}
	}

	if len(plan.Env) > 0 || len(plan.PassEnv) > 0 {
		b.WriteString("\n## Environment\n\n")
		keys := make([]string, 0, len(plan.Env))
		for k := range plan.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- `%s=%s`\n", k, plan.Env[k])
		}
		for _, p := range plan.PassEnv {
			fmt.Fprintf(&b, "- `%s` (passed through)\n", p)
		}
	}

	for _, phase := range []domain.Phase{domain.PhaseInstall, domain.PhaseSetup, domain.PhaseTest} {
		steps := plan.StepsIn(phase)
		if len(steps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", phase)
		for i, s := range steps {
			line := fmt.Sprintf("%d. `%s`", i+1, s.Command.String())
			if s.Group != "" && s.Group != plan.Selector.Group {
				line += fmt.Sprintf(" _(from %s)_", s.Group)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
