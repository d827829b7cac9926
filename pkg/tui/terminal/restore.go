// ABOUTME: RestoreOnPanic recovers from panics, resets keyboard modes, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call in the goroutine that owns the terminal.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Reset writes ResetSequence and leaves raw mode. Errors are ignored; it
// runs on paths where the terminal may already be gone.
func Reset(t Terminal) {
	_, _ = io.WriteString(t, ResetSequence)
	_ = t.ExitRawMode()
}

// RestoreOnPanic should be deferred at the top of main. On panic it pops
// keyboard modes, exits raw mode, prints the panic value and stack trace,
// then exits with code 1.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	Reset(t)
	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of background goroutines
// that run while the terminal is in raw mode. Unlike RestoreOnPanic it
// does NOT call os.Exit, allowing the main goroutine to handle shutdown.
func RecoverGoroutine(t Terminal) {
	r := recover()
	if r == nil {
		return
	}

	Reset(t)
	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}
