/*
PURPOSE:
  Maps report outcomes and command errors to process exit codes.

REQUIREMENTS:
  User-specified:
  - 0: no selected category failed.
  - 1: one or more selected categories failed.
  - 2: usage or configuration error.

  Implementation-discovered:
  - 3: report aborted on a malformed artifact or a write failure.

RELATED FILES:
  - internal/engine/errors.go
  - internal/cli/root.go
*/

package engine

import (
	"errors"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
	ExitAbort  = 3
)

// ExitCode maps a status histogram to the process exit code: 1 when any
// selected category failed, 0 otherwise.
func ExitCode(hist model.StatusHistogram) int {
	if hist.Failed > 0 {
		return ExitFailed
	}
	return ExitOK
}

// ResolveExitCode maps the error returned by a command to the process exit
// code. Errors that are neither a status nor an abort are usage errors.
func ResolveExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}
	var abort *AbortError
	if errors.As(err, &abort) {
		return ExitAbort
	}
	return ExitUsage
}
