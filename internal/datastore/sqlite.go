package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tphakala/hotspots-go/internal/conf"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the SQLite database connection and brings the schema up to
// date. Calling Open on an already-open store is a no-op.
func (store *SQLiteStore) Open() error {
	if store.DB != nil {
		return nil
	}

	path := store.Settings.Store.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// Foreign keys must be enabled per connection for the saved-hotspot
	// cascade to work; WAL is the store's normal journal mode.
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: createGormLogger(store.Settings.Store.Debug),
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying database: %w", err)
	}
	// One pooled connection: per-connection PRAGMA state stays on the
	// connection that set it, and the WAL<->MEMORY journal switch during
	// bulk loads needs an otherwise idle database.
	sqlDB.SetMaxOpenConns(1)

	store.DB = db
	return performMigrations(db, store.Settings.Store.Debug)
}

// Close releases the underlying database handle.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying database: %w", err)
	}
	store.DB = nil
	return sqlDB.Close()
}

// performMigrations creates missing tables and indexes, then applies
// forward-only column migrations. Table creation failure is fatal to the
// caller; column migration failures are surfaced through the log only, so
// an older but usable schema does not prevent startup.
func performMigrations(db *gorm.DB, debug bool) error {
	if err := db.AutoMigrate(&Pack{}, &Hotspot{}, &Target{}, &SavedHotspot{}, &SavedPlace{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database schema: %w", err)
	}

	if err := migratePackColumns(db); err != nil {
		GetLogger().Warn("pack column migration failed, continuing with existing schema",
			"error", err)
	}

	if debug {
		GetLogger().Debug("database schema ready")
	}
	return nil
}

// migratePackColumns adds the version and updated_at columns to packs when
// they are missing. Databases written before versioned packs existed lack
// both columns; detection is by introspecting the current column set.
func migratePackColumns(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, column := range []string{"version", "updated_at"} {
		if migrator.HasColumn(&Pack{}, column) {
			continue
		}
		if err := migrator.AddColumn(&Pack{}, column); err != nil {
			return fmt.Errorf("adding packs.%s: %w", column, err)
		}
	}
	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		slogWriter{},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// slogWriter adapts the package logger to GORM's printf-style interface.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}
