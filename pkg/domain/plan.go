package domain

import (
	"fmt"
	"strings"
)

// Phase orders the steps of a plan.
type Phase string

const (
	PhaseInstall Phase = "install"
	PhaseSetup   Phase = "setup"
	PhaseTest    Phase = "test"
)

// EnvSelectorVar is exported to every command with the canonical selector.
const EnvSelectorVar = "LATTICE_ENV"

// Step is one command of a plan.
type Step struct {
	Phase Phase  `json:"phase"`
	Group string `json:"group,omitempty"`
	Command
}

// Plan is the fully resolved, executable form of one environment.
type Plan struct {
	Selector Selector          `json:"selector"`
	Deps     []string          `json:"deps"`
	Steps    []Step            `json:"steps"`
	Env      map[string]string `json:"env,omitempty"`
	PassEnv  []string          `json:"passenv,omitempty"`
	WorkDir  string            `json:"workdir,omitempty"`
}

// StepsIn returns the steps of the given phase, in order.
func (p Plan) StepsIn(phase Phase) []Step {
	var out []Step
	for _, s := range p.Steps {
		if s.Phase == phase {
			out = append(out, s)
		}
	}
	return out
}

// Plan resolves an already validated selector into install, setup and test steps.
// posargs replace the "{posargs}" placeholder of command lines.
func (m *Matrix) Plan(sel Selector, posargs []string) (Plan, error) {
	if m.Groups == nil {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownGroup, sel.Group)
	}
	rg, err := m.Groups.Resolve(sel.Group)
	if err != nil {
		return Plan{}, err
	}

	sub := newSubstituter(sel, m.WorkDir, rg.Deps, posargs)
	plan := Plan{
		Selector: sel,
		Deps:     rg.Deps,
		Env:      map[string]string{EnvSelectorVar: sel.String()},
		PassEnv:  dedupe(append(append([]string{}, m.PassEnv...), rg.PassEnv...)),
		WorkDir:  m.WorkDir,
	}
	for k, v := range m.SetEnv {
		plan.Env[k] = sub.Replace(v)
	}
	for k, v := range rg.SetEnv {
		plan.Env[k] = sub.Replace(v)
	}

	if len(rg.Deps) > 0 {
		if strings.TrimSpace(m.InstallCommand) == "" {
			return Plan{}, fmt.Errorf("%w: group %s declares deps but no install_command is set", ErrInvalidConfig, sel.Group)
		}
		plan.Steps = append(plan.Steps, Step{
			Phase:   PhaseInstall,
			Command: Command{Line: sub.Replace(m.InstallCommand)},
		})
	}

	mode, hasMode := m.Modes[sel.Mode]
	if hasMode {
		for _, c := range mode.Install {
			plan.Steps = append(plan.Steps, Step{Phase: PhaseInstall, Command: sub.command(c)})
		}
		if mode.appliesTo(sel.Variant) {
			for _, c := range mode.Commands {
				plan.Steps = append(plan.Steps, Step{Phase: PhaseSetup, Command: sub.command(c)})
			}
		}
	}

	for _, gc := range rg.Commands {
		plan.Steps = append(plan.Steps, Step{Phase: PhaseTest, Group: gc.Group, Command: sub.command(gc.Command)})
	}
	return plan, nil
}

type substituter struct {
	*strings.Replacer
}

func newSubstituter(sel Selector, workdir string, deps, posargs []string) substituter {
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = ShellQuote(d)
	}
	return substituter{strings.NewReplacer(
		"{envname}", sel.String(),
		"{interpreter}", sel.Interpreter,
		"{group}", sel.Group,
		"{variant}", sel.Variant,
		"{mode}", sel.Mode,
		"{workdir}", workdir,
		"{deps}", strings.Join(quoted, " "),
		"{posargs}", strings.Join(posargs, " "),
	)}
}

func (s substituter) command(c Command) Command {
	return Command{Line: strings.TrimSpace(s.Replace(c.Line)), IgnoreErrors: c.IgnoreErrors}
}

// ShellQuote single-quotes a word for sh when it contains anything beyond a safe character set.
func ShellQuote(word string) string {
	if word == "" {
		return "''"
	}
	safe := true
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=:,+@%", r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}
