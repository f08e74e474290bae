package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/vigorfit/vigor/internal/logger"
)

// Sync-layer error taxonomy. Service methods classify every failure into one
// of these sentinels before it crosses a package boundary; raw driver errors
// never escape.
var (
	// ErrNetwork is a transient remote failure. Local optimistic state is
	// preserved and the failure surfaces only as a notification.
	ErrNetwork = errors.New("remote store unreachable")

	// ErrConflict is a uniqueness violation on a conditional insert. Callers
	// that want "already in desired state" semantics treat it as success.
	ErrConflict = errors.New("uniqueness conflict")

	// ErrValidation is an input rejected before any remote call was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrStaleConsumer marks a result that arrived after its consumer tore
	// down. It is discarded silently, never logged as an error.
	ErrStaleConsumer = errors.New("consumer no longer live")

	// ErrNotFound is a missing row.
	ErrNotFound = errors.New("not found")

	// ErrLocked means another mutation on the same entity is already in
	// flight in this session.
	ErrLocked = errors.New("entity mutation already in progress")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
