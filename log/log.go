// Package log provides a leveled, structured logger for the whole service.
// It is a thin wrapper around zerolog with a package-level API, so callers
// just do log.Infow("msg", "key", value) without carrying a logger around.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log levels supported by Init.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	logTestWriterName = "__test__"
	errorKey          = "error"
)

var (
	// logger defaults to a no-op until Init is called.
	logger = zerolog.Nop()
	level  string

	// logTestWriter is the writer used when Init output is logTestWriterName.
	logTestWriter io.Writer = io.Discard

	// panicOnInvalidChars triggers a panic when a log line carries invalid
	// UTF-8, to catch callers formatting raw bytes with %s. Only meant to be
	// enabled in tests.
	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"
)

// Init initializes the global logger with the given level and output. The
// output can be "stdout", "stderr", the name of a file, or logTestWriterName.
// If errorOutput is not nil, error and fatal messages are duplicated to it.
func Init(logLevel, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot create log output: %v", err))
		}
		out = f
	}
	out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339Nano}
	if errorOutput != nil {
		out = zerolog.MultiLevelWriter(out, errWriter{errorOutput})
	}
	logger = zerolog.New(out).With().Timestamp().Logger()
	level = logLevel
	switch logLevel {
	case LogLevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LogLevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", logLevel))
	}
	logger.Info().Msgf("logger construction succeeded at level %s with output %s", logLevel, output)
}

// errWriter duplicates error-level (and above) lines to a secondary writer.
type errWriter struct {
	w io.Writer
}

func (e errWriter) Write(p []byte) (int, error) { return len(p), nil }

func (e errWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l >= zerolog.ErrorLevel {
		return e.w.Write(p)
	}
	return len(p), nil
}

// Level returns the level the logger was initialized with.
func Level() string { return level }

// Logger returns the underlying zerolog logger.
func Logger() *zerolog.Logger { return &logger }

func checkInvalidChars(s string) {
	if panicOnInvalidChars && strings.ContainsRune(s, '�') {
		panic(fmt.Sprintf("log line with invalid chars: %q", s))
	}
}

func logf(ev *zerolog.Event, template string, args ...any) {
	s := fmt.Sprintf(template, args...)
	checkInvalidChars(s)
	ev.Msg(s)
}

func logw(ev *zerolog.Event, msg string, keyvals ...any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvals[i])
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	checkInvalidChars(msg)
	ev.Msg(msg)
}

// Debug logs a debug message.
func Debug(args ...any) { logf(logger.Debug(), "%s", fmt.Sprint(args...)) }

// Debugf logs a debug message with formatting.
func Debugf(template string, args ...any) { logf(logger.Debug(), template, args...) }

// Debugw logs a debug message with key-value pairs.
func Debugw(msg string, keyvals ...any) { logw(logger.Debug(), msg, keyvals...) }

// Info logs an info message.
func Info(args ...any) { logf(logger.Info(), "%s", fmt.Sprint(args...)) }

// Infof logs an info message with formatting.
func Infof(template string, args ...any) { logf(logger.Info(), template, args...) }

// Infow logs an info message with key-value pairs.
func Infow(msg string, keyvals ...any) { logw(logger.Info(), msg, keyvals...) }

// Warn logs a warning message.
func Warn(args ...any) { logf(logger.Warn(), "%s", fmt.Sprint(args...)) }

// Warnf logs a warning message with formatting.
func Warnf(template string, args ...any) { logf(logger.Warn(), template, args...) }

// Warnw logs a warning message with key-value pairs.
func Warnw(msg string, keyvals ...any) { logw(logger.Warn(), msg, keyvals...) }

// Error logs an error message.
func Error(args ...any) { logf(logger.Error(), "%s", fmt.Sprint(args...)) }

// Errorf logs an error message with formatting.
func Errorf(template string, args ...any) { logf(logger.Error(), template, args...) }

// Errorw logs an error with a message, as key-value pairs.
func Errorw(err error, msg string) { logw(logger.Error(), msg, errorKey, err) }

// Fatalf logs a fatal message with formatting and exits.
func Fatalf(template string, args ...any) {
	logf(logger.Fatal(), template, args...)
}
