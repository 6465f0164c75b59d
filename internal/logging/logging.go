// Package logging configures the default slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init sets the default slog logger. Without a log file records go to the
// console through ancli, otherwise to a rotated file at logFile. The
// returned closer releases the file.
func Init(logFile, level, format string) (*slog.Logger, io.Closer, error) {
	logFile = strings.TrimSpace(logFile)
	if logFile == "" {
		ancli.SetupSlog()
		return slog.Default(), nopCloser{}, nil
	}
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		logger := slog.New(newHandler(format, io.Discard, opts))
		slog.SetDefault(logger)
		return logger, nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	logger := slog.New(newHandler(format, writer, opts))
	slog.SetDefault(logger)
	return logger, writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return slog.NewTextHandler(out, opts)
	default:
		return slog.NewJSONHandler(out, opts)
	}
}
