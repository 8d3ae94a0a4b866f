package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/hotspots-go/internal/errors"
)

const targetPayload = `{"samples":[12,null,7],"species":[["comcha",82.5],["eurbla",64.0],["woowar",12.1]]}`

func TestTargetDecode(t *testing.T) {
	t.Parallel()

	target := Target{ID: "L1", Data: targetPayload}
	data, err := target.Decode()
	require.NoError(t, err)

	require.Len(t, data.Samples, 3)
	require.NotNil(t, data.Samples[0])
	assert.Equal(t, 12, *data.Samples[0])
	assert.Nil(t, data.Samples[1], "per-window sample counts are nullable")

	require.Len(t, data.Species, 3)
	assert.Equal(t, "comcha", data.Species[0].Code)
	assert.InDelta(t, 82.5, data.Species[0].Percentage, 0.001)
}

func TestTargetDecodeInvalid(t *testing.T) {
	t.Parallel()

	target := Target{ID: "L1", Data: "not json"}
	_, err := target.Decode()
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryJSONParsing))

	bad := Target{ID: "L2", Data: `{"species":[["only-code"]]}`}
	_, err = bad.Decode()
	assert.Error(t, err, "tuple with wrong arity must fail")
}

func TestEncodeTargetDataRoundTrip(t *testing.T) {
	t.Parallel()

	n := 4
	data := &TargetData{
		Samples: []*int{&n, nil},
		Species: []SpeciesFrequency{{Code: "comcha", Percentage: 50}},
	}
	encoded, err := EncodeTargetData(data)
	require.NoError(t, err)

	decoded, err := (&Target{Data: encoded}).Decode()
	require.NoError(t, err)
	assert.Equal(t, data.Species, decoded.Species)
	require.Len(t, decoded.Samples, 2)
	assert.Equal(t, 4, *decoded.Samples[0])
	assert.Nil(t, decoded.Samples[1])
}

func TestFilterSpecies(t *testing.T) {
	t.Parallel()

	data := &TargetData{Species: []SpeciesFrequency{
		{Code: "comcha", Percentage: 82.5},
		{Code: "eurbla", Percentage: 64.0},
		{Code: "woowar", Percentage: 12.1},
	}}

	filtered := data.FilterSpecies([]string{"eurbla"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "comcha", filtered[0].Code)
	assert.Equal(t, "woowar", filtered[1].Code)

	assert.Len(t, data.FilterSpecies(nil), 3, "empty life list filters nothing")
}

func TestGetTarget(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := testHotspots(1, 2)
	targets := []Target{{ID: hotspots[0].ID, Data: targetPayload}}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 1, Name: "Test"}, hotspots, targets))

	target, err := store.GetTarget(ctx, hotspots[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, target.PackID)

	// Not every hotspot has a target entry.
	_, err = store.GetTarget(ctx, hotspots[1].ID)
	assert.True(t, errors.IsNotFound(err))
}
