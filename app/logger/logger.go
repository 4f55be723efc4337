package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mytheresa/northwind-console/app/config"
	"github.com/mytheresa/northwind-console/models"
	"github.com/rs/zerolog"
)

// New creates a new logger based on the configuration, writing to w.
func New(cfg config.LoggerConfig, w io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a configured level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// OpenOutput resolves the configured log destination. "stdout" and "stderr"
// name the process streams; anything else is a file opened for appending.
// The returned close function is safe to call for every destination.
func OpenOutput(output string) (io.Writer, func() error, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, func() error { return nil }, nil
	case "stdout":
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", output, err)
	}
	return f, f.Close, nil
}

// Failure starts an event for a failed operation: store failures are
// errors, everything the user can fix is a warning.
func Failure(l zerolog.Logger, err error) *zerolog.Event {
	kind := models.KindOf(err)
	var ev *zerolog.Event
	if kind == models.KindStoreFailure {
		ev = l.Error()
	} else {
		ev = l.Warn()
	}
	return ev.Err(err).Str("kind", kind.String())
}
