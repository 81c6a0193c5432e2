// Package logging builds the process logger from configuration.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/crow-router/crow/internal/infrastructure/config"
)

// SlogLogger adapts *slog.Logger to the application logging port
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// Log implements logging.Logger
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(metadata))
	for k, v := range metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(context.Background(), parseLevel(level), message, attrs...)
}

// Slog exposes the underlying logger for adapters that log directly
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// New creates a logger from configuration.
// The returned closer must be called on shutdown when output is a file.
func New(cfg config.LoggingConfig) (*SlogLogger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out = f
		closer = f
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}

	return NewWithWriter(cfg, out), closer, nil
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *SlogLogger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}

	var handler slog.Handler
	if cfg.Structured() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogLogger(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
