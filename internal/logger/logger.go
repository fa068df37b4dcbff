// Package logger sets up structured logging for phonecheck.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Logger wraps slog.Logger with the few events phonecheck reports.
type Logger struct {
	*slog.Logger
}

// New logs text at debug level in development and JSON at info level
// otherwise.
func New(env string, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// PlansLoaded logs an extra numbering-plan file being merged.
func (l *Logger) PlansLoaded(file string, countries []string) {
	l.Info("plans_loaded",
		slog.String("file", file),
		slog.Any("countries", countries),
	)
}

// BatchDone logs the summary of a batch run.
func (l *Logger) BatchDone(input string, total, valid, invalid, blank int, workers int) {
	l.Info("batch_done",
		slog.String("input", input),
		slog.Int("total", total),
		slog.Int("valid", valid),
		slog.Int("invalid", invalid),
		slog.Int("blank", blank),
		slog.Int("workers", workers),
	)
}

// InvalidPhone logs one rejected number at debug level.
func (l *Logger) InvalidPhone(line int, country string, errors []string) {
	l.Debug("invalid_phone",
		slog.Int("line", line),
		slog.String("country", country),
		slog.Any("errors", errors),
	)
}
