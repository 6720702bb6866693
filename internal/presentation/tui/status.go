package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	colorPass = "#22c55e"
	colorFail = "#ef4444"
	colorWarn = "#f59e0b"
	colorDim  = "#6b7280"
)

// Interactive reports whether w is a terminal.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Styler colors run output for a terminal and leaves it plain otherwise.
type Styler struct {
	out *termenv.Output
}

// NewStyler picks the color profile of w. Non-terminals and NO_COLOR get plain text.
func NewStyler(w io.Writer) *Styler {
	if !Interactive(w) || os.Getenv("NO_COLOR") != "" {
		return NewPlainStyler(w)
	}
	return &Styler{out: termenv.NewOutput(w)}
}

// NewPlainStyler never emits escape sequences.
func NewPlainStyler(w io.Writer) *Styler {
	return &Styler{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (s *Styler) paint(text, color string, bold bool) string {
	style := s.out.String(text).Foreground(s.out.Color(color))
	if bold {
		style = style.Bold()
	}
	return style.String()
}

// Status renders a run status label.
func (s *Styler) Status(status domain.RunStatus) string {
	label := strings.ToUpper(string(status))
	switch status {
	case domain.RunPassed:
		return s.paint(label, colorPass, true)
	case domain.RunFailed, domain.RunError:
		return s.paint(label, colorFail, true)
	default:
		return s.paint(label, colorWarn, true)
	}
}

// Step renders one line per step result.
func (s *Styler) Step(r domain.StepResult) string {
	var mark string
	switch {
	case r.Skipped:
		mark = s.paint("skip", colorDim, false)
	case r.Ignored:
		mark = s.paint("warn", colorWarn, false)
	case r.Failed():
		mark = s.paint("fail", colorFail, false)
	default:
		mark = s.paint(" ok ", colorPass, false)
	}
	line := fmt.Sprintf("[%s] %-7s %s", mark, r.Phase, r.Command)
	if r.Skipped {
		return line
	}
	if r.Failed() || r.Ignored {
		line += s.paint(fmt.Sprintf(" (exit %d)", r.ExitCode), colorDim, false)
	}
	return line + s.paint(" "+r.Duration.Round(1e6).String(), colorDim, false)
}

// Summary renders the closing line of a run.
func (s *Styler) Summary(rec *domain.RunRecord) string {
	passed, failed, skipped := rec.Counts()
	return fmt.Sprintf("%s %s: %d passed, %d failed, %d skipped in %s (run %s)",
		s.Status(rec.Status), rec.Selector, passed, failed, skipped, rec.Duration().Round(1e6), rec.ID)
}

// WriteRecord prints every step of rec followed by the summary.
func (s *Styler) WriteRecord(w io.Writer, rec *domain.RunRecord, verbose bool) {
	for _, step := range rec.Steps {
		fmt.Fprintln(w, s.Step(step))
		if verbose && step.Failed() && step.Output != "" {
			for _, l := range strings.Split(strings.TrimRight(step.Output, "\n"), "\n") {
				fmt.Fprintln(w, s.paint("    | "+l, colorDim, false))
			}
		}
	}
	fmt.Fprintln(w, s.Summary(rec))
}
