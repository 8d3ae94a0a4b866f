package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default values match the behavior of the mobile client this engine backs.
const (
	DefaultIndexURL       = "https://packs.birdinghotspots.org/index.json"
	DefaultBatchSize      = 1000
	DefaultNearbyTarget   = 200
	DefaultDisplayLimit   = 200
	DefaultSearchDebounce = 150 * time.Millisecond
	DefaultViewDebounce   = 250 * time.Millisecond
	DefaultSaveDebounce   = 800 * time.Millisecond
)

// DefaultRadiiKm is the sequence of radius buckets tried by the nearby
// search, smallest first.
var DefaultRadiiKm = []float64{50, 100, 200, 500}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("locale", "en-US")

	v.SetDefault("store.path", "hotspots.db")
	v.SetDefault("store.debug", false)

	v.SetDefault("index.url", DefaultIndexURL)
	v.SetDefault("index.cachettl", 15*time.Minute)

	v.SetDefault("download.timeout", 60*time.Second)
	v.SetDefault("download.useragent", "hotspots-go")
	v.SetDefault("download.tempdir", "")

	v.SetDefault("install.batchsize", DefaultBatchSize)

	v.SetDefault("nearby.radiikm", DefaultRadiiKm)
	v.SetDefault("nearby.targetcount", DefaultNearbyTarget)
	v.SetDefault("nearby.displaylimit", DefaultDisplayLimit)

	v.SetDefault("debounce.search", DefaultSearchDebounce)
	v.SetDefault("debounce.viewport", DefaultViewDebounce)
	v.SetDefault("debounce.autosave", DefaultSaveDebounce)

	v.SetDefault("log.dir", "logs")
}

// defaultSettings builds a Settings struct carrying only default values.
func defaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	settings := &Settings{}
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(settings)
	return settings
}
