// Package datastore logging infrastructure for database operations
package datastore

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/logging"
)

// Package-level logger for datastore operations
var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar) // Dynamic level control
	loggerCloseFunc   func() error
	loggerOnce        sync.Once
	loggerMu          sync.RWMutex
)

// InitializeLogger initializes the datastore logger with the specified log
// file path. Safe to call multiple times; initialization happens only once.
// An empty path places the file in the configured log directory.
func InitializeLogger(logFilePath string) error {
	var initErr error

	loggerOnce.Do(func() {
		if logFilePath == "" {
			logFilePath = filepath.Join(conf.Setting().Log.Dir, "datastore.log")
		}

		datastoreLevelVar.Set(slog.LevelInfo)

		var err error
		logger, closeFn, err := logging.NewFileLogger(logFilePath, "datastore", datastoreLevelVar)
		if err != nil {
			// Fall back to the shared structured logger instead of failing.
			logger = logging.ForService("datastore")
			closeFn = func() error { return nil }
			initErr = errors.Newf("datastore: failed to initialize file logger: %w", err).
				Component("datastore").
				Category(errors.CategoryFileIO).
				Context("log_file", logFilePath).
				Build()
		}

		loggerMu.Lock()
		datastoreLogger = logger
		loggerCloseFunc = closeFn
		loggerMu.Unlock()
	})

	return initErr
}

// GetLogger returns the datastore logger, initializing a fallback logger
// when InitializeLogger has not been called.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	if datastoreLogger != nil {
		defer loggerMu.RUnlock()
		return datastoreLogger
	}
	loggerMu.RUnlock()

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if datastoreLogger == nil {
		datastoreLogger = logging.ForService("datastore")
	}
	return datastoreLogger
}

// SetLogLevel adjusts the datastore log verbosity at runtime.
func SetLogLevel(level slog.Level) {
	datastoreLevelVar.Set(level)
}

// CloseLogger flushes and closes the datastore log file.
func CloseLogger() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if loggerCloseFunc == nil {
		return nil
	}
	err := loggerCloseFunc()
	loggerCloseFunc = nil
	return err
}
