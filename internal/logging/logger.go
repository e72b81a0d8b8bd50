// Package logging builds the slog loggers used by the CLI and the solver.
//
// Logs always go to a separate writer (stderr by default) so stdout stays reserved for
// progress lines and the rendered board.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type Config struct {
	// Level is the minimum level written. Default: LevelInfo.
	Level Level

	// JSON switches from the text handler to the JSON handler.
	JSON bool

	// Quiet discards every record.
	Quiet bool

	// Service, when set, is attached to every record as "service".
	Service string

	// Output defaults to os.Stderr.
	Output io.Writer
}

func New(config Config) *slog.Logger {
	if config.Quiet {
		return slog.New(slog.DiscardHandler)
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return slog.New(handler)
}

// Default is an info-level text logger on stderr.
func Default() *slog.Logger {
	return New(Config{Level: LevelInfo, Service: "genqueens"})
}
