// Package log is a thin leveled wrapper over slog used across the server.
// Output goes to stderr so it never mixes with tool results on stdout.
package log

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var level atomic.Int64

func init() {
	level.Store(int64(slog.LevelInfo))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// Level returns the current global log level.
func Level() slog.Level {
	return slog.Level(level.Load())
}

// Debug logs a debug-level message when the level allows it.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, "DEBUG", format, args...)
}

// Info logs an info-level message when the level allows it.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, "INFO", format, args...)
}

// Warn logs a warning when the level allows it.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, "WARN", format, args...)
}

// Error logs an error message. Errors are always emitted.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}

func logf(l slog.Level, tag, format string, args ...any) {
	if slog.Level(level.Load()) > l {
		return
	}
	fmt.Fprintf(os.Stderr, "["+tag+"] "+format+"\n", args...)
}
