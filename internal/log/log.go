// ABOUTME: Levelled logging over a slog text handler for decoder diagnostics
// ABOUTME: Global level via SetLevel, output via SetOutput; defaults to stderr

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a slog level.
type Level = slog.Level

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  slog.LevelVar
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(LevelInfo)
	SetOutput(os.Stderr)
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return LevelInfo, fmt.Errorf("parsing log level %q: %w", name, err)
	}
	return l, nil
}

// SetOutput redirects log records to w. The TUI swaps stderr for a file so
// diagnostics do not corrupt the screen.
func SetOutput(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: &level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	logger.Store(slog.New(h))
}

// Logger returns the underlying structured logger.
func Logger() *slog.Logger {
	return logger.Load()
}

func logf(l slog.Level, format string, args ...any) {
	lg := logger.Load()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

// Info logs an info message if the level allows it.
func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Error logs an error message.
func Error(format string, args ...any) { logf(LevelError, format, args...) }
