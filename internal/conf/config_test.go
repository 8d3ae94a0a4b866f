package conf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := defaultSettings()
	assert.Equal(t, "hotspots.db", s.Store.Path)
	assert.Equal(t, DefaultIndexURL, s.Index.URL)
	assert.Equal(t, DefaultBatchSize, s.Install.BatchSize)
	assert.Equal(t, DefaultRadiiKm, s.Nearby.RadiiKm)
	assert.Equal(t, DefaultNearbyTarget, s.Nearby.TargetCount)
	assert.Equal(t, 150*time.Millisecond, s.Debounce.Search)
	require.NoError(t, ValidateSettings(s), "defaults must validate")
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"empty store path", func(s *Settings) { s.Store.Path = "" }, "store.path"},
		{"empty index url", func(s *Settings) { s.Index.URL = "" }, "index.url"},
		{"zero batch size", func(s *Settings) { s.Install.BatchSize = 0 }, "batchsize"},
		{"no radii", func(s *Settings) { s.Nearby.RadiiKm = nil }, "radiikm"},
		{"unsorted radii", func(s *Settings) { s.Nearby.RadiiKm = []float64{100, 50} }, "increasing"},
		{"negative radius", func(s *Settings) { s.Nearby.RadiiKm = []float64{-1, 50} }, "increasing"},
		{"zero target", func(s *Settings) { s.Nearby.TargetCount = 0 }, "targetcount"},
		{"zero display limit", func(s *Settings) { s.Nearby.DisplayLimit = 0 }, "displaylimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := defaultSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAsRoundTrip(t *testing.T) {
	s := defaultSettings()
	s.Locale = "fi-FI"
	path := t.TempDir() + "/nested/config.yaml"
	require.NoError(t, s.SaveAs(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fi-FI")
}
