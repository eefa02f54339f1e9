// Package logging provides the process-wide leveled logger used by the
// jukebox tools. It wraps charmbracelet/log with printf-style helpers.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		TimeFormat:      "15:04:05",
	})
}

// InitLogger replaces the default logger. With verbose set, debug messages
// and timestamps are written; otherwise only warnings and errors.
func InitLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := newLogger(w, verbose)
	mu.Lock()
	logger = l
	mu.Unlock()
	return l
}

// SetPrefix sets a prefix printed before every message.
func SetPrefix(prefix string) {
	current().SetPrefix(prefix)
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	current().Debug(fmt.Sprintf(format, args...))
}

// Info logs an info message
func Info(format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message
func Error(format string, args ...any) {
	current().Error(fmt.Sprintf(format, args...))
}
