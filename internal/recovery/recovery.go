// internal/recovery/recovery.go
package recovery

import (
	"fmt"
	"os"
	"runtime/debug"
)

// HandlePanic should be deferred at the top of main() or goroutines.
// It logs panic details and exits with code 1.
func HandlePanic() {
	if r := recover(); r != nil {
		_, _ = fmt.Fprintf(os.Stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
		os.Exit(1)
	}
}

// HandlePanicFunc runs the provided cleanup function, logs panic details
// and exits with code 1. Cleanup runs before the report is printed so
// that a terminal left in raw mode or output lines left keyed are
// restored first.
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		if cleanup != nil {
			cleanup()
		}
		_, _ = fmt.Fprintf(os.Stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
		os.Exit(1)
	}
}

// Usage in goroutines (with cleanup):
//go func() {
//	defer recovery.HandlePanicFunc(func() { _ = panel.Close() })
//	bcn.Run(ctx)
//}()
