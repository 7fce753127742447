// Package errors holds the fatal-exit helpers main falls back to when a
// command cannot continue. The message lands in both the log file and stderr.
package errors

import (
	"fmt"
	"os"

	"github.com/jspargo/remind/internal/logger"
)

// Fatal logs err, prints it to stderr with an "Error: " prefix, and exits
// with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Fatalf is Fatal with a format string.
func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
