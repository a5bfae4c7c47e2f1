package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger *slog.Logger
)

type ctxKey struct{}

// Init initializes the global logger
func Init(level string, json bool) {
	InitWriter(os.Stdout, level, json)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, json bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("info", false)
	}
	return defaultLogger
}

// NewContext stores attributes that WithContext adds to every record.
func NewContext(ctx context.Context, args ...any) context.Context {
	if prev, ok := ctx.Value(ctxKey{}).([]any); ok {
		args = append(append([]any(nil), prev...), args...)
	}
	return context.WithValue(ctx, ctxKey{}, args)
}

// WithContext returns a logger with context values
func WithContext(ctx context.Context) *slog.Logger {
	if args, ok := ctx.Value(ctxKey{}).([]any); ok && len(args) > 0 {
		return Get().With(args...)
	}
	return Get()
}

// Info logs at info level
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
