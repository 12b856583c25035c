/*
PURPOSE:
  Defines the 'list-categories' subcommand.
  Helps check which probes a run directory has results for.

REQUIREMENTS:
  User-specified:
  - List the known benchmark categories.

  Implementation-discovered:
  - Useful validation step before generating a report.

ARCHITECTURE INTEGRATION:
  - Calls: internal/registry.Default(), internal/store.Available()

ERROR HANDLING:
  - Usage error on bad arguments or config.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  bee-pagoda list-categories [run_dir]
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/bee-pagoda/internal/registry"
	"github.com/daryltucker/bee-pagoda/internal/store"
)

var listCategoriesCmd = &cobra.Command{
	Use:   "list-categories [run_dir]",
	Short: "List known benchmark categories",
	Long: `Lists the registered benchmark categories in report order. With a run
directory, each category is marked present or missing depending on whether
its raw artifact exists.`,
	Args: argsBetween(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		names := registry.Default().Names()
		if len(args) == 0 {
			for _, name := range names {
				fmt.Fprintf(out, "- %s\n", name)
			}
			return nil
		}

		st := store.New(args[0], cfg.RawDir)
		for _, name := range names {
			state := "missing"
			if st.Available(name) {
				state = "present"
			}
			fmt.Fprintf(out, "- %s (%s)\n", name, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCategoriesCmd)
}
