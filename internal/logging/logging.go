/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package logging wraps log/slog as the pipeline's one-shot logging collaborator, per §9's Design
// Note: "keep the one-shot logger as an explicit collaborator, not a module global." Every stage
// and the processor itself is handed a *Logger explicitly rather than reaching for a package-level
// logger.
package logging

/*****************************************************************************************************************/

import (
	"io"
	"log/slog"
	"os"
)

/*****************************************************************************************************************/

// Logger is a thin collaborator around slog.Logger, adding the failure-logging shape §7 requires:
// a kind, the offending frame's path, and a one-line cause.
type Logger struct {
	logger *slog.Logger
}

/*****************************************************************************************************************/

// New returns a Logger writing structured text to w.
func New(w io.Writer) *Logger {
	return &Logger{
		logger: slog.New(slog.NewTextHandler(w, nil)),
	}
}

/*****************************************************************************************************************/

// Default returns a Logger writing to stderr, for command-line entry points.
func Default() *Logger {
	return New(os.Stderr)
}

/*****************************************************************************************************************/

// Info logs a routine progress message.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

/*****************************************************************************************************************/

// Failure logs a stage or component failure with its kind, the offending frame's path, and a
// one-line cause, per §7's "user-visible behavior."
func (l *Logger) Failure(kind string, framePath string, cause error) {
	l.logger.Error("pipeline failure", "kind", kind, "frame", framePath, "cause", cause)
}

/*****************************************************************************************************************/
