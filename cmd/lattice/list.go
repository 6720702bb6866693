package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/lattice/internal/settings"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every environment of the matrix",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, storage, err := openEngine(cmd, settings.BackendMemory)
		if err != nil {
			return err
		}
		defer storage.Close()

		envs, err := eng.Environments()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			names := make([]string, len(envs))
			for i, sel := range envs {
				names[i] = sel.String()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}

		if groups, _ := cmd.Flags().GetBool("groups"); groups {
			for _, g := range eng.Groups() {
				fmt.Fprintf(out, "%-20s %s\n", g.Name, g.Description)
			}
			return nil
		}

		for _, sel := range envs {
			fmt.Fprintln(out, sel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "Print a JSON array")
	listCmd.Flags().Bool("groups", false, "List test groups instead of environments")
}
