package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lattice/internal/settings"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "List the files static analysis should check",
	Long: `Without arguments, walks the project working directory and prints every file the
lint rule includes. With paths, prints those the rule keeps.

With --diagnostics, reads linter output (path:line:col: CODE message) from a file
or "-" for stdin and prints the findings that are not suppressed by the ignore list.
The command fails when any finding remains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, storage, err := openEngine(cmd, settings.BackendMemory)
		if err != nil {
			return err
		}
		defer storage.Close()

		out := cmd.OutOrStdout()
		if source, _ := cmd.Flags().GetString("diagnostics"); source != "" {
			r, closeFn, err := openInput(cmd, source)
			if err != nil {
				return err
			}
			defer closeFn()

			diags, err := eng.LintDiagnostics(r)
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintln(out, d)
			}
			if len(diags) > 0 {
				return fmt.Errorf("%d lint findings", len(diags))
			}
			return nil
		}

		var files []string
		if len(args) > 0 {
			files, err = eng.LintPaths(args)
		} else {
			root := eng.Matrix().WorkDir
			if root == "" {
				root = "."
			}
			files, err = eng.LintWalk(cmd.Context(), root)
		}
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().String("diagnostics", "", "Filter linter output read from FILE, or - for stdin")
}

func openInput(cmd *cobra.Command, source string) (io.Reader, func() error, error) {
	if source == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
