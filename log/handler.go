// Package log builds the slog handlers used across the gateway, and carries
// guest log records across the WASM boundary.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the output encoding of a handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// HandlerOption configures a handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	format    Format
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level:  slog.LevelInfo,
		format: FormatText,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithFormat selects text or JSON output. Unknown formats fall back to text.
func WithFormat(f Format) HandlerOption {
	return func(c *handlerConfig) {
		c.format = f
	}
}

// NewHandler creates a slog handler writing to w.
func NewHandler(w io.Writer, opts ...HandlerOption) slog.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	if cfg.format == FormatJSON {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a level.
// The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
