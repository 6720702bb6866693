package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/settings"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice runs a project's tests across a matrix of environments",
	Long: `Lattice reads a latticefile describing test groups, interpreters, variants and
install modes, resolves selectors such as py36-unit-default-dev into install and
test steps, and runs them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Path to the latticefile (default lattice.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default .lattice/settings.yaml)")
}

// loadSettings reads settings and applies the persistent flags on top.
func loadSettings(cmd *cobra.Command) (*settings.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	s, err := settings.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("file") {
		s.File, _ = cmd.Flags().GetString("file")
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return s, nil
}

// openEngine builds an engine for the command. Inspection commands pass
// settings.BackendMemory so that nothing is written to disk.
func openEngine(cmd *cobra.Command, backend string) (*lattice.Engine, *cli.Storage, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cli.NewEngine(cli.EngineOptions{
		Settings: s,
		Backend:  backend,
		Output:   cmd.OutOrStdout(),
	})
}
