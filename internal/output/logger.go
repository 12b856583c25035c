/*
PURPOSE:
  Provides a structured logger for bee-pagoda.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - stdout carries only the report path, so logs go to stderr.

  Implementation-discovered:
  - Human-readable text on a terminal, JSON when piped (CI, wrappers).

ARCHITECTURE INTEGRATION:
  - Used everywhere.
  - Configured by internal/cli before any command runs.

ERROR HANDLING:
  - Unknown levels fall back to info.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")

RELATED FILES:
  - All.
*/

package output

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/daryltucker/bee-pagoda/internal/config"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// NewLogger builds a logger writing to w. With format "auto" a terminal gets
// the text handler and anything else gets JSON.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	options := &slog.HandlerOptions{Level: lvl}

	if format == config.LogFormatAuto {
		format = config.LogFormatJSON
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = config.LogFormatText
		}
	}

	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
