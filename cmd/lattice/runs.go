package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer storage.Close()

		ids, err := storage.Store.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSELECTOR\tSTATUS\tSTARTED\tDURATION")
		for _, id := range ids {
			rec, err := storage.Store.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.Selector, rec.Status,
				rec.StartedAt.Local().Format("2006-01-02 15:04:05"), rec.Duration().Round(1e6))
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer storage.Close()

		rec, err := storage.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		tui.NewStyler(out).WriteRecord(out, rec, true)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	runsCmd.PersistentFlags().String("store", "", "Run store backend: memory, file or redis (default from settings)")
	runsShowCmd.Flags().Bool("json", false, "Print the record as JSON")
}

// openStorage reads the run store without loading the latticefile.
func openStorage(cmd *cobra.Command) (*cli.Storage, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	backend, _ := cmd.Flags().GetString("store")
	return cli.OpenStorage(s, backend)
}
