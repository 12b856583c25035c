/*
PURPOSE:
  Defines the 'generate-report' command.
  Builds the report for one run directory.

REQUIREMENTS:
  User-specified:
  - generate-report <run_dir> <profile_name> [selected_categories_csv]
  - Prints the narrative summary path on success.

  Implementation-discovered:
  - Available both as a bee-pagoda subcommand and as the standalone
    generate-report binary.
  - Need to load config first, then apply positional overrides.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config, internal/registry

ERROR HANDLING:
  - Wrong argument count is a usage error (exit 2) before any I/O.
  - A failed category returns ExitStatus{1} after the report is written.

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override -> engine.Run.

USAGE:
  bee-pagoda generate-report ./runs/2026-10-18 balanced cpu,ai

RELATED FILES:
  - internal/cli/root.go
*/

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/bee-pagoda/internal/config"
	"github.com/daryltucker/bee-pagoda/internal/engine"
	"github.com/daryltucker/bee-pagoda/internal/registry"
)

func newGenerateReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-report <run_dir> <profile_name> [selected_categories_csv]",
		Short: "Aggregate raw probe results into summary.json, summary.csv and summary.md",
		Long: `Reads <run_dir>/raw/<category>.json for every selected category and the optional
<run_dir>/raw/preflight.json, then writes <run_dir>/report/summary.{json,csv,md}.

Without a category list, every known category that has a raw artifact is
selected; if none do, all known categories are reported as missing.

Exit codes:
  0  no selected category failed
  1  at least one selected category failed
  2  usage or configuration error
  3  report aborted (malformed artifact or write failure)`,
		Example: `  # Report on whatever the probes produced
  generate-report ./runs/latest balanced

  # Report on specific categories only
  generate-report ./runs/latest quick cpu,ai`,
		Args: argsBetween(2, 3),
		RunE: runGenerateReport,
	}
}

func runGenerateReport(cmd *cobra.Command, args []string) error {
	// 1. Load Config
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// 2. Overrides
	cfg.RunDir = args[0]
	cfg.Profile = args[1]
	if len(args) == 3 && args[2] != "" {
		cfg.Categories = config.ParseList(args[2])
	}
	cfg.ResolveInterpreter(os.Getenv, os.Executable)

	// 3. Execution
	outcome, err := engine.Run(cfg, registry.Default())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), outcome.Paths.Markdown)
	if outcome.ExitCode != engine.ExitOK {
		return &engine.ExitStatus{Code: outcome.ExitCode}
	}
	return nil
}

// ExecuteGenerateReport runs generate-report as a standalone program and
// returns the process exit code.
func ExecuteGenerateReport() int {
	return execute(newStandaloneGenerateReport(), nil)
}

func newStandaloneGenerateReport() *cobra.Command {
	cmd := newGenerateReportCommand()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	addGlobalFlags(cmd.Flags())
	return cmd
}

func init() {
	rootCmd.AddCommand(newGenerateReportCommand())
}
