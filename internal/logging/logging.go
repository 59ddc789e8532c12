// Package logging builds the slog logger used across ttsdeck: a colorized
// console handler on stderr, optionally fanned out to a rotated JSON file.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/MrWong99/ttsdeck/internal/config"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs a logger from cfg. When cfg.File is set, log records are
// additionally written as JSON to that file with size-based rotation.
func New(cfg config.LoggingConfig) *slog.Logger {
	lvl := Level(cfg.Level)
	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	if cfg.File == "" {
		return slog.New(console)
	}
	file := slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}, &slog.HandlerOptions{Level: lvl})
	return slog.New(teeHandler{console, file})
}

// Level maps a configured log level onto its slog equivalent. Unknown values
// fall back to info.
func Level(l config.LogLevel) slog.Level {
	switch l {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// teeHandler duplicates records to both handlers. A record is emitted when at
// least one handler is enabled for its level.
type teeHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.console.Enabled(ctx, lvl) || h.file.Enabled(ctx, lvl)
}

func (h teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var first error
	if h.console.Enabled(ctx, rec.Level) {
		first = h.console.Handle(ctx, rec.Clone())
	}
	if h.file.Enabled(ctx, rec.Level) {
		if err := h.file.Handle(ctx, rec.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{h.console.WithAttrs(attrs), h.file.WithAttrs(attrs)}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{h.console.WithGroup(name), h.file.WithGroup(name)}
}
