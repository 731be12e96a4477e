// Package logger is a minimal leveled front on the standard logger. The
// scanner uses it to record skipped schemas and tables.
package logger

import (
	"io"
	"log"
	"os"
)

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects all subsequent output, e.g. to io.Discard or a
// buffer in tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Fatal logs with a fatal label and exits.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...any) {
	std.Fatalf(fatalLabel+format, args...)
}

// Error logs with an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...any) {
	std.Printf(errorLabel+format, args...)
}

// Warn logs with a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...any) {
	std.Printf(warnLabel+format, args...)
}

// Info logs with an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...any) {
	std.Printf(infoLabel+format, args...)
}

// Debug logs with a debug label.
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...any) {
	std.Printf(debugLabel+format, args...)
}
