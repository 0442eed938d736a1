// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *slog.Logger
	logLevel      *slog.LevelVar
	initOnce      sync.Once
	logOutput     io.Writer = io.Discard

	// debugFilter prints filtering decisions to stderr. Only for debugging the filter itself.
	debugFilter bool
)

// Init initializes the logger package with a processed config and an output writer.
// Only the first call has an effect.
func Init(cfg Config, output io.Writer) {
	initOnce.Do(func() {
		install(cfg, output)
	})
}

// install builds the handler chain. Callers must hold initOnce.
func install(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	cfg.process()
	logOutput = output
	logLevel = new(slog.LevelVar)
	logLevel.Set(cfg.level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	base := slog.NewTextHandler(output, &opts)
	defaultLogger = slog.New(newFilteringHandler(base, &cfg))

	// PC=0: no source info for the init message itself
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "Logger initialized", 0)
	r.AddAttrs(slog.String("level", logLevel.Level().String()))
	_ = base.Handle(context.Background(), r)
}

// Setup opens the configured log destination and initializes the logger.
// The returned closer must be closed on exit; it is a no-op for stderr and discard.
func Setup(cfg Config) (io.Closer, error) {
	var out io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	switch cfg.LogFilePath {
	case "":
	case "-":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file '%s': %w", cfg.LogFilePath, err)
		}
		out, closer = f, f
	}
	Init(cfg, out)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetDebugFilter toggles diagnostics of the filtering handler on stderr.
func SetDebugFilter(enabled bool) {
	debugFilter = enabled
}

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	ensureInitialized()
	logLevel.Set(level)
}

// Ensure logger is initialized, providing a safe default if Init wasn't called.
// This default logger won't output anywhere unless Init configures it.
func ensureInitialized() {
	initOnce.Do(func() {
		install(NewConfig(), io.Discard)
	})
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	ensureInitialized()
	// Check level early to avoid overhead of Callers and Sprintf if disabled
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}

	// Skip 3 frames:
	// 1. runtime.Callers itself
	// 2. logAtLevel (this function)
	// 3. The wrapper function (Debugf, Infof, etc.)
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = defaultLogger.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// DebugTagf logs a debug message carrying a tag that the filter can select on.
func DebugTagf(tag string, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
	os.Exit(1)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	ensureInitialized()
	return defaultLogger
}
