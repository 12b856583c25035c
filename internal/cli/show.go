/*
PURPOSE:
  Defines the 'show' command.
  Prints an already generated report to the terminal.

ERROR HANDLING:
  - Missing report is a usage error (exit 2).
  - An unreadable summary.json aborts (exit 3).

USAGE:
  bee-pagoda show ./runs/latest --color never
*/

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/bee-pagoda/internal/engine"
	"github.com/daryltucker/bee-pagoda/internal/output"
)

var colorFlag string

var showCmd = &cobra.Command{
	Use:   "show <run_dir>",
	Short: "Print a generated report to the terminal",
	Long: `Reads <run_dir>/report/summary.json, the canonical report artifact, and prints
each category with its status and key metrics followed by the status counts.`,
	Args: argsBetween(1, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		mode, err := output.ParseColorMode(colorFlag)
		if err != nil {
			return &engine.UsageError{Err: err}
		}

		path := filepath.Join(args[0], cfg.ReportDir, output.SummaryJSONName)
		f, err := os.Open(path)
		if err != nil {
			return &engine.UsageError{Err: fmt.Errorf("no report found: %w", err)}
		}
		defer f.Close()

		summary, err := output.ReadSummaryJSON(f)
		if err != nil {
			return &engine.AbortError{Err: fmt.Errorf("reading %s: %w", path, err)}
		}
		return output.WriteConsole(cmd.OutOrStdout(), summary, mode)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&colorFlag, "color", string(output.ColorAuto), "colorize output: auto, always, never")
}
