/*
PURPOSE:
  Defines the root Cobra command for the bee-pagoda CLI.
  Handles global flags, config loading and exit code mapping.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.
  - Exit 0/1/2 per report status and usage, 3 on aborted reports.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go that returns the
    process exit code rather than an error.
  - The environment is read here and nowhere below.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/bee-pagoda/main.go, cmd/generate-report/main.go
  - Calls: Child commands (generate-report, show, list-categories)

ERROR HANDLING:
  - Errors are printed once as a single "Error: ..." line on stderr.
  - Status-driven exits (ExitStatus) print nothing extra.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.

RELATED FILES:
  - cmd/bee-pagoda/main.go
  - internal/engine/exit.go
*/

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/daryltucker/bee-pagoda/internal/config"
	"github.com/daryltucker/bee-pagoda/internal/engine"
	"github.com/daryltucker/bee-pagoda/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "bee-pagoda",
		Short: "Aggregate benchmark probe results into a report",
		Long: `bee-pagoda turns the raw JSON artifacts written by benchmark probes into a
reproducible report (summary.json, summary.csv, summary.md).
Use 'generate-report --help' for report options.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute executes the root command and returns the process exit code.
func Execute() int {
	return execute(rootCmd, nil)
}

func execute(cmd *cobra.Command, args []string) int {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	var status *engine.ExitStatus
	if err != nil && !errors.As(err, &status) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return engine.ResolveExitCode(err)
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfgFile, "config", "", "config file (default is ./bee-pagoda.yaml)")
	fs.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&logFormat, "log-format", "", "log format: auto, text, json (overrides config)")
}

// loadConfig loads the config file, applies flag overrides and installs the
// logger. Any failure is a usage error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, &engine.UsageError{Err: err}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, &engine.UsageError{Err: err}
	}
	output.SetLogger(output.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))
	return cfg, nil
}

// argsBetween validates the positional argument count, reporting usage on
// mismatch.
func argsBetween(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs || len(args) > maxArgs {
			return engine.Usagef("usage: %s (got %d arguments)", cmd.Use, len(args))
		}
		return nil
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}
