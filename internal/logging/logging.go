// Package logging configures the application's structured loggers.
//
// It maintains two top-level slog loggers: a JSON structured logger for
// machine consumption and a text logger for humans, plus rotating
// per-component file loggers created with NewFileLogger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	structuredLogger    *slog.Logger
	humanReadableLogger *slog.Logger
	initOnce            sync.Once
)

// File logger rotation defaults, applied when the caller does not override them.
const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// Init initializes the logging system with structured and human-readable
// loggers. Safe to call multiple times; only the first call takes effect.
func Init() {
	initOnce.Do(func() {
		SetOutput(os.Stdout, os.Stderr)
	})
}

// SetOutput rebuilds both loggers against the given writers. Tests use this
// to capture log output.
func SetOutput(structuredOutput, humanReadableOutput io.Writer) {
	structuredLogger = slog.New(slog.NewJSONHandler(structuredOutput, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	humanReadableLogger = slog.New(slog.NewTextHandler(humanReadableOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(structuredLogger)
}

// Structured returns the JSON structured logger.
func Structured() *slog.Logger {
	Init()
	return structuredLogger
}

// HumanReadable returns the human-readable text logger.
func HumanReadable() *slog.Logger {
	Init()
	return humanReadableLogger
}

// ForService returns a child of the structured logger tagged with the
// given service name.
func ForService(serviceName string) *slog.Logger {
	return Structured().With("service", serviceName)
}

// NewFileLogger creates a JSON slog logger writing to a rotating log file.
// It returns the logger, a close function for the underlying writer, and an
// error if the log directory cannot be created. The level handle may be a
// *slog.LevelVar so callers can adjust verbosity at runtime.
func NewFileLogger(filePath, serviceName string, level slog.Leveler) (*slog.Logger, func() error, error) {
	// lumberjack doesn't create directories
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAgeDays,
		Compress:   false,
	}

	fileHandler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	fileLogger := slog.New(fileHandler).With("service", serviceName)

	return fileLogger, logWriter.Close, nil
}
