// Package logger provides a process-wide structured logger, modeled on the
// singleton-over-log/slog pattern used across the gateway's ambient stack.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

var singleton atomic.Pointer[slog.Logger]

func init() {
	singleton.Store(newLogger(os.Stderr, slog.LevelInfo, unstructuredLogs()))
}

// Initialize (re)configures the process-wide logger from the environment.
// UNSTRUCTURED_LOGS set to a value strconv.ParseBool reads as false (e.g.
// "false", "0") selects JSON output; any other value (including unset or
// unparseable) keeps the default human-readable text output. DEBUG=true
// lowers the level to debug.
func Initialize() {
	level := slog.LevelInfo
	if debug, _ := strconv.ParseBool(os.Getenv("DEBUG")); debug {
		level = slog.LevelDebug
	}
	singleton.Store(newLogger(os.Stderr, level, unstructuredLogs()))
}

func newLogger(w io.Writer, level slog.Leveler, unstructured bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if unstructured {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// envReader abstracts os.Getenv so unstructuredLogsWithEnv is independently
// testable without mutating the process environment.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mock_env_reader_test.go -package=logger -source=logger.go envReader
type envReader interface {
	Getenv(key string) string
}

type osEnvReader struct{}

func (osEnvReader) Getenv(key string) string { return os.Getenv(key) }

func unstructuredLogs() bool {
	return unstructuredLogsWithEnv(osEnvReader{})
}

// unstructuredLogsWithEnv defaults to true (human-readable text) unless the
// environment explicitly disables it with "false".
func unstructuredLogsWithEnv(env envReader) bool {
	v := env.Getenv("UNSTRUCTURED_LOGS")
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

func get() *slog.Logger {
	return singleton.Load()
}

// Debug logs at debug level.
func Debug(msg string) { get().Log(context.Background(), slog.LevelDebug, msg) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	get().Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Debugw logs a message with key-value pairs at debug level.
func Debugw(msg string, kv ...any) { get().Log(context.Background(), slog.LevelDebug, msg, kv...) }

// Info logs at info level.
func Info(msg string) { get().Log(context.Background(), slog.LevelInfo, msg) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	get().Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Infow logs a message with key-value pairs at info level.
func Infow(msg string, kv ...any) { get().Log(context.Background(), slog.LevelInfo, msg, kv...) }

// Warn logs at warn level.
func Warn(msg string) { get().Log(context.Background(), slog.LevelWarn, msg) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	get().Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Warnw logs a message with key-value pairs at warn level.
func Warnw(msg string, kv ...any) { get().Log(context.Background(), slog.LevelWarn, msg, kv...) }

// Error logs at error level.
func Error(msg string) { get().Log(context.Background(), slog.LevelError, msg) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	get().Log(context.Background(), slog.LevelError, fmt.Sprintf(format, args...))
}

// Errorw logs a message with key-value pairs at error level.
func Errorw(msg string, kv ...any) { get().Log(context.Background(), slog.LevelError, msg, kv...) }
