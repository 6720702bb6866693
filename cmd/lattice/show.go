package main

import (
	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/settings"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <selector> [-- posargs...]",
	Short: "Print the resolved plan of an environment",
	Long:  `Resolves the selector and prints the install, setup and test steps a run would execute. Nothing is executed.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selectors, posargs := splitPosargs(cmd, args)
		if len(selectors) != 1 {
			return cobra.ExactArgs(1)(cmd, selectors)
		}

		format := cli.FormatText
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = cli.FormatJSON
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			format = cli.FormatYAML
		}

		eng, storage, err := openEngine(cmd, settings.BackendMemory)
		if err != nil {
			return err
		}
		defer storage.Close()

		plan, err := eng.Plan(selectors[0], posargs)
		if err != nil {
			return err
		}
		return cli.WritePlan(cmd.OutOrStdout(), plan, format)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("json", false, "Print the plan as JSON")
	showCmd.Flags().Bool("yaml", false, "Print the plan as YAML")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// splitPosargs separates the arguments after "--", which are substituted for {posargs}.
func splitPosargs(cmd *cobra.Command, args []string) (before, after []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}
