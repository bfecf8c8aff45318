// Package logger provides structured logging for the whole process, built
// on log/slog. It supports text and json output, runtime level changes and
// redirection to a file, configured once at startup from pkg/config.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu       sync.RWMutex
	levelVar = new(slog.LevelVar)
	slogger  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar}))
	output   io.Writer = os.Stdout
)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
	}
}

// Init configures the process-wide logger. It is typically called once
// from main after configuration is loaded; packages log through the
// package-level functions and never hold handler state themselves.
func Init(cfg Config) error {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var w io.Writer
	switch cfg.Output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		w = f
	}

	mu.Lock()
	defer mu.Unlock()

	levelVar.Set(lvl)
	output = w

	opts := &slog.HandlerOptions{Level: levelVar}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		slogger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		slogger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	return nil
}

// InitWithWriter configures the logger to write to w. Used by tests.
func InitWithWriter(w io.Writer, level, format string) {
	lvl, _ := parseLevel(level)

	mu.Lock()
	defer mu.Unlock()

	levelVar.Set(lvl)
	output = w

	opts := &slog.HandlerOptions{Level: levelVar}
	if strings.ToLower(format) == "json" {
		slogger = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		slogger = slog.New(slog.NewTextHandler(w, opts))
	}
}

// SetLevel changes the minimum level at runtime. Unknown levels are
// ignored so a bad value in a reloaded config cannot silence logging.
func SetLevel(level string) {
	lvl, err := parseLevel(level)
	if err != nil {
		return
	}
	levelVar.Set(lvl)
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level with key-value pairs.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs at info level with key-value pairs.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs at warn level with key-value pairs.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs at error level with key-value pairs.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a logger carrying the given key-value pairs, for components
// that want a pre-scoped *slog.Logger (for example "component", "store").
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}
