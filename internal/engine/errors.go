/*
PURPOSE:
  Typed errors returned by the pipeline and the CLI.

ERROR HANDLING:
  - UsageError: bad invocation or configuration, nothing read yet.
  - AbortError: inputs accepted but unusable, nothing written.
  - ExitStatus: a non-zero exit that needs no error message.

RELATED FILES:
  - internal/engine/exit.go
*/

package engine

import "fmt"

// UsageError is an invocation or configuration problem detected before any
// raw artifact is read.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// AbortError stops report generation after the inputs were accepted, for
// example on a malformed artifact. No report files are written.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string { return "report aborted: " + e.Err.Error() }

func (e *AbortError) Unwrap() error { return e.Err }

// ExitStatus carries a non-zero status-driven exit code out of a command
// that otherwise succeeded.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
