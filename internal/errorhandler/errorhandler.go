// Package errorhandler centralizes panic recovery and fatal error reporting
// for the command line tools.
package errorhandler

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
)

type handler struct {
	logToConsole    bool
	exitOnCritical  bool
	recoveryEnabled bool
	console         io.Writer
	exit            func(int)
}

var (
	mu      sync.Mutex
	current = &handler{logToConsole: true, recoveryEnabled: true, console: os.Stderr, exit: os.Exit}
)

// Init configures the global handler.
// logToConsole prints critical errors to stderr in addition to the log,
// exitOnCritical terminates the process with status 1 after a critical error,
// recoveryEnabled lets HandlePanic swallow panics instead of re-raising them.
func Init(logToConsole, exitOnCritical, recoveryEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	current = &handler{
		logToConsole:    logToConsole,
		exitOnCritical:  exitOnCritical,
		recoveryEnabled: recoveryEnabled,
		console:         os.Stderr,
		exit:            os.Exit,
	}
}

func get() *handler {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// HandleCriticalError reports err with a short description of what failed.
func HandleCriticalError(err error, context string) {
	if err == nil {
		return
	}
	h := get()
	logging.Error("%s: %v", context, err)
	if h.logToConsole {
		fmt.Fprintf(h.console, "Error: %s: %v\n", context, err)
	}
	if h.exitOnCritical {
		h.exit(1)
	}
}

// HandlePanic recovers a panic in the calling goroutine when recovery is
// enabled. It must be called directly via defer.
func HandlePanic() {
	h := get()
	if !h.recoveryEnabled {
		return
	}
	if r := recover(); r != nil {
		logging.Error("panic recovered: %v\n%s", r, debug.Stack())
		if h.logToConsole {
			fmt.Fprintf(h.console, "Error: unexpected failure: %v\n", r)
		}
		if h.exitOnCritical {
			h.exit(1)
		}
	}
}
