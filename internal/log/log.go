// Package log wires up slog for the command line tools.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelFatal for errors that should print and exit with a non-zero code.
const LevelFatal = slog.Level(16)

// ParseLevel parses a level name, accepting the standard slog names plus
// "fatal".
func ParseLevel(s string) (slog.Level, error) {
	if strings.ToLower(s) == "fatal" {
		return LevelFatal, nil
	}
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// renameLevel gives the custom fatal level a proper name in the output
// instead of slog's default ERROR+8.
func renameLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok && level == LevelFatal {
			a.Value = slog.StringValue("FATAL")
		}
	}
	return a
}

// New creates a logger writing to stderr in the given format, either "text" or
// "json".
func New(minLevel slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       minLevel,
		ReplaceAttr: renameLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return slog.New(handler), nil
}

// Fatal logs a message at fatal level and exits
func Fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}
