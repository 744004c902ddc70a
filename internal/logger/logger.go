// Package logger provides the process-wide structured logger. Level and
// format come from the environment (LOG_LEVEL, LOG_FORMAT).
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	lgr *slog.Logger
)

// Init sets up the global logger. Safe to call multiple times.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	lgr = slog.New(handler)
}

// L returns the global logger. Always returns a non-nil instance.
func L() *slog.Logger {
	mu.RLock()
	if lgr != nil {
		defer mu.RUnlock()
		return lgr
	}
	mu.RUnlock()

	Init()

	mu.RLock()
	defer mu.RUnlock()
	return lgr
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
