package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [selector...] [-- posargs...]",
	Short: "Install and run environments",
	Long: `Runs the given environments one after another. Without selectors (and without -e)
every environment of the matrix is run. Arguments after "--" replace {posargs}
in test commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		selectors, posargs := splitPosargs(cmd, args)
		envs, _ := cmd.Flags().GetStringSlice("env")
		selectors = append(selectors, envs...)

		opts := cli.RunOptions{
			Selectors: selectors,
			Posargs:   posargs,
		}
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.FailFast, _ = cmd.Flags().GetBool("fail-fast")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		backend, _ := cmd.Flags().GetString("store")

		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engineOpts := cli.EngineOptions{
			Settings: s,
			Backend:  backend,
			Output:   cmd.OutOrStdout(),
		}
		if events, _ := cmd.Flags().GetString("events"); events != "" {
			f, err := os.Create(events)
			if err != nil {
				return err
			}
			defer f.Close()
			engineOpts.Events = f
		}

		metricsFile, _ := cmd.Flags().GetString("metrics")
		reg := prometheus.NewRegistry()
		if metricsFile != "" {
			engineOpts.Metrics = observability.NewMetrics(reg)
		}

		eng, storage, err := cli.NewEngine(engineOpts)
		if err != nil {
			return err
		}
		defer storage.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		runErr := cli.Execute(ctx, eng, opts, cmd.OutOrStdout())
		if metricsFile != "" {
			// Textfile collector format, written even when a run failed.
			if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
				return errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceP("env", "e", nil, "Comma separated selectors to run")
	runCmd.Flags().Bool("dry-run", false, "Print the plans without executing anything")
	runCmd.Flags().Bool("fail-fast", false, "Stop after the first failed environment")
	runCmd.Flags().BoolP("verbose", "v", false, "Print the output tail of failed steps")
	runCmd.Flags().String("events", "", "Write run and step events as JSON lines to FILE")
	runCmd.Flags().String("metrics", "", "Write Prometheus metrics of the runs to FILE (textfile collector format)")
	runCmd.Flags().String("store", "", "Run store backend: memory, file or redis (default from settings)")
}
