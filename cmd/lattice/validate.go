package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/settings"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the latticefile for consistency",
	Long: `Loads the latticefile, expands the environment list and resolves every
environment into a plan, reporting unknown groups, composite cycles, empty groups
and invalid selectors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, storage, err := openEngine(cmd, settings.BackendMemory)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer storage.Close()

		envs, err := eng.Environments()
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		for _, sel := range envs {
			if _, err := eng.Plan(sel.String(), nil); err != nil {
				return fmt.Errorf("validation failed: %s: %w", sel, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Latticefile is valid! ✅ (%d groups, %d environments)\n", len(eng.Groups()), len(envs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
