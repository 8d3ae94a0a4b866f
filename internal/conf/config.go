// Package conf handles loading and validating application settings.
//
// Settings are read with viper from a YAML config file, with environment
// variable overrides, mirroring how the rest of the configuration surface
// of the application behaves.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StoreSettings configures the embedded hotspot store.
type StoreSettings struct {
	Path  string // path to the SQLite database file
	Debug bool   // true to enable verbose query logging
}

// IndexSettings configures access to the remote pack index.
type IndexSettings struct {
	URL      string        // pack index document URL
	CacheTTL time.Duration // how long a fetched index is reused
}

// DownloadSettings configures the pack payload transport.
type DownloadSettings struct {
	Timeout   time.Duration // per-request HTTP timeout
	UserAgent string        // User-Agent header for all requests
	TempDir   string        // directory for in-flight payload files, empty for os.TempDir
}

// InstallSettings configures pack installation.
type InstallSettings struct {
	BatchSize int // rows per multi-row insert during bulk load
}

// NearbySettings configures the expanding-radius nearby search.
type NearbySettings struct {
	RadiiKm      []float64 // radius buckets tried in order
	TargetCount  int       // stop expanding once a bucket yields this many results
	DisplayLimit int       // maximum results returned to the caller after distance sort
}

// DebounceSettings configures interactive query debouncing.
type DebounceSettings struct {
	Search   time.Duration // text search input
	Viewport time.Duration // map viewport changes
	Autosave time.Duration // location-based autosave
}

// LogSettings configures component file logging.
type LogSettings struct {
	Dir string // directory for per-component log files
}

// Settings contains all runtime configuration.
type Settings struct {
	Debug    bool
	Locale   string // BCP 47 tag used for distance unit selection
	Store    StoreSettings
	Index    IndexSettings
	Download DownloadSettings
	Install  InstallSettings
	Nearby   NearbySettings
	Debounce DebounceSettings
	Log      LogSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads settings from the config file and environment, applies
// defaults, validates the result and stores it as the package singleton.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	settingsInstance = settings
	return settings, nil
}

// Setting returns the loaded settings singleton, loading defaults if no
// explicit Load has happened yet.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		// Fall back to pure defaults; validation of defaults cannot fail.
		settings = defaultSettings()
		settingsMutex.Lock()
		settingsInstance = settings
		settingsMutex.Unlock()
	}
	return settings
}

func loadSettings() (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "hotspots-go"))
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("hotspots")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errorsAs(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// SaveAs writes the settings as YAML to the given path, creating parent
// directories as needed.
func (s *Settings) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
