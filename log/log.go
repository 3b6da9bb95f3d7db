// Package log is a thin slog wrapper used by the interpreter tooling. It
// exists so the CLI and REPL share one logger construction path with
// functional options and an optional colorized handler for terminals.
package log

import (
	"io"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is used when no level option is given.
const DefaultLevel = LevelWarn

// ParseLevel maps a case-insensitive level name to a Level. Unknown names
// fall back to DefaultLevel rather than failing; a bad --log-level flag
// should not keep the interpreter from running.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLevel
	}
}

// Levels lists the accepted level names, for flag help text.
func Levels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Logger wraps slog.Logger so call sites depend on this package rather than
// on handler wiring.
type Logger struct {
	*slog.Logger
}

type config struct {
	output io.Writer
	level  Level
	color  bool
}

// Option applies a configuration option when constructing a Logger.
type Option func(config) config

// WithLevel sets the minimum level; messages below it are discarded.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level
		return c
	}
}

// WithColor toggles the colorized terminal handler. Off, output is plain
// slog text suitable for piping.
func WithColor(enable bool) Option {
	return func(c config) config {
		c.color = enable
		return c
	}
}

// Make creates a Logger writing to w. A nil writer discards everything.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := config{output: w, level: DefaultLevel}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	if cfg.output == nil {
		cfg.output = io.Discard
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.Level(cfg.level)}
	if cfg.color {
		return Logger{Logger: slog.New(newColorHandler(cfg.output, handlerOpts))}
	}
	return Logger{Logger: slog.New(slog.NewTextHandler(cfg.output, handlerOpts))}
}

// Discard returns a logger that drops every message. Useful as a default in
// libraries that accept an optional logger.
func Discard() Logger {
	return Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
