/*
PURPOSE:
  Entry point for the bee-pagoda application.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point.
  - Exit code is decided by the CLI (0 ok, 1 failed category, 2 usage,
    3 aborted report).

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()
  - Depends on: internal/cli package

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o bee-pagoda ./cmd/bee-pagoda
  ./bee-pagoda [command] [flags]

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.
*/

package main

import (
	"os"

	"github.com/daryltucker/bee-pagoda/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
