package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Plan output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Selectors to run; empty means every environment of the matrix.
	Selectors []string
	Posargs   []string
	DryRun    bool
	FailFast  bool
	Verbose   bool
}

// Execute runs the selected environments and prints one report per run.
// With DryRun only the plans are printed.
func Execute(ctx context.Context, eng *lattice.Engine, opts RunOptions, w io.Writer) error {
	if opts.DryRun {
		selectors := opts.Selectors
		if len(selectors) == 0 {
			envs, err := eng.Environments()
			if err != nil {
				return err
			}
			for _, sel := range envs {
				selectors = append(selectors, sel.String())
			}
		}
		for _, s := range selectors {
			plan, err := eng.Plan(s, opts.Posargs)
			if err != nil {
				return err
			}
			if err := WritePlan(w, plan, FormatText); err != nil {
				return err
			}
		}
		return nil
	}

	records, err := eng.RunAll(ctx, opts.Selectors, opts.Posargs, opts.FailFast)
	styler := tui.NewStyler(w)
	var passed int
	for _, rec := range records {
		styler.WriteRecord(w, rec, opts.Verbose)
		if rec.Passed() {
			passed++
		}
	}
	if len(records) > 1 {
		printSystemMessage(w, "%d environments: %d passed, %d not passed", len(records), passed, len(records)-passed)
	}

	if isInterrupted(err) {
		var sig os.Signal
		if sc, ok := ctx.(*SignalContext); ok {
			sig = sc.Signal()
		}
		reportInterruption(w, sig)
	}
	return err
}

// WritePlan prints a plan as markdown (rendered by glamour on a terminal), JSON or YAML.
func WritePlan(w io.Writer, plan domain.Plan, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		md := tui.PlanMarkdown(plan)
		if tui.Interactive(w) {
			render, err := tui.NewRenderer()
			if err == nil {
				if out, err := render(md); err == nil {
					md = out
				}
			}
		}
		_, err := fmt.Fprintln(w, md)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
