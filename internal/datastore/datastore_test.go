package datastore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/geo"
)

// newTestStore opens a store against a throwaway database file.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Store.Path = filepath.Join(t.TempDir(), "hotspots.db")
	settings.Install.BatchSize = conf.DefaultBatchSize

	store := &SQLiteStore{
		DataStore: DataStore{BatchSize: settings.Install.BatchSize},
		Settings:  settings,
	}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testHotspots(packID, n int) []Hotspot {
	hotspots := make([]Hotspot, n)
	for i := range hotspots {
		hotspots[i] = Hotspot{
			ID:      fmt.Sprintf("L%d-%d", packID, i),
			Name:    fmt.Sprintf("Hotspot %d-%d", packID, i),
			Species: 10 + i,
			Lat:     60.0 + float64(i)*0.01,
			Lng:     24.0 + float64(i)*0.01,
			Country: "FI",
		}
	}
	return hotspots
}

func TestOpenIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	// A second Open on the same handle is a no-op.
	require.NoError(t, store.Open())

	// Re-opening the same database file must not fail on existing schema.
	second := &SQLiteStore{
		DataStore: DataStore{BatchSize: conf.DefaultBatchSize},
		Settings:  store.Settings,
	}
	require.NoError(t, second.Open())
	require.NoError(t, second.Close())
}

func TestStoreNotOpen(t *testing.T) {
	t.Parallel()

	ds := &DataStore{}
	_, err := ds.GetPacks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreNotOpen)

	err = ds.SaveHotspot(context.Background(), "L1", "")
	assert.ErrorIs(t, err, ErrStoreNotOpen)
}

func TestInstallPack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta := PackMeta{ID: 7, Name: "Coastal Region", Version: "2024.1", UpdatedAt: "2024-05-01T00:00:00Z"}
	hotspots := testHotspots(7, 3)
	targets := []Target{
		{ID: hotspots[0].ID, Data: `{"samples":[5,null],"species":[["comcha",80.5]]}`},
		{ID: hotspots[1].ID, Data: `{"samples":[2,3],"species":[]}`},
	}

	require.NoError(t, store.InstallPack(ctx, meta, hotspots, targets))

	pack, err := store.GetPack(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Coastal Region", pack.Name)
	assert.Equal(t, 3, pack.Hotspots)
	assert.Equal(t, "2024.1", pack.Version)
	assert.Equal(t, "2024-05-01T00:00:00Z", pack.RemoteUpdatedAt)
	assert.False(t, pack.InstalledAt.IsZero())

	var hotspotCount, targetCount int64
	store.DB.Model(&Hotspot{}).Where("pack_id = ?", 7).Count(&hotspotCount)
	store.DB.Model(&Target{}).Where("pack_id = ?", 7).Count(&targetCount)
	assert.EqualValues(t, 3, hotspotCount)
	assert.EqualValues(t, 2, targetCount)
}

func TestInstallEmptyPack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A sparse region may legitimately produce a pack with zero hotspots.
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 9, Name: "Open Ocean"}, nil, nil))

	pack, err := store.GetPack(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, pack.Hotspots)
}

func TestInstallReplaceSemantics(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	setA := testHotspots(7, 5)
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 7, Name: "Coastal", Version: "1"}, setA, nil))

	setB := []Hotspot{
		{ID: "LB-1", Name: "New One", Lat: 61, Lng: 25},
		{ID: "LB-2", Name: "New Two", Lat: 61.1, Lng: 25.1},
	}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 7, Name: "Coastal", Version: "2"}, setB, nil))

	pack, err := store.GetPack(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, pack.Hotspots)
	assert.Equal(t, "2", pack.Version)

	var ids []string
	store.DB.Model(&Hotspot{}).Where("pack_id = ?", 7).Order("id").Pluck("id", &ids)
	assert.Equal(t, []string{"LB-1", "LB-2"}, ids, "no residual rows from the first install")
}

func TestOpenPinsSingleConnection(t *testing.T) {
	store := newTestStore(t)

	sqlDB, err := store.DB.DB()
	require.NoError(t, err)
	// Pragma state is per-connection; a pool larger than one could hand the
	// relaxed connection to another caller while the restore runs elsewhere.
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestBulkLoadScopeTogglesDurabilityPragmas(t *testing.T) {
	store := newTestStore(t)

	scope := beginBulkLoad(store.DB)
	var syncMode int
	var journalMode string
	store.DB.Raw("PRAGMA synchronous").Scan(&syncMode)
	store.DB.Raw("PRAGMA journal_mode").Scan(&journalMode)
	assert.Equal(t, 0, syncMode, "synchronous is OFF inside the scope")
	assert.Equal(t, "memory", journalMode, "journal switch must actually take effect")

	scope.end()
	store.DB.Raw("PRAGMA synchronous").Scan(&syncMode)
	store.DB.Raw("PRAGMA journal_mode").Scan(&journalMode)
	assert.Equal(t, 1, syncMode, "synchronous back to NORMAL after the scope")
	assert.Equal(t, "wal", journalMode)
}

func TestInstallRollbackAndPragmaRestore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	good := testHotspots(7, 2)
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 7, Name: "Coastal", Version: "1"}, good, nil))

	// Duplicate primary keys force a constraint failure mid-transaction.
	bad := []Hotspot{
		{ID: "DUP", Name: "First", Lat: 1, Lng: 1},
		{ID: "DUP", Name: "Second", Lat: 2, Lng: 2},
	}
	err := store.InstallPack(ctx, PackMeta{ID: 7, Name: "Coastal", Version: "2"}, bad, nil)
	require.Error(t, err)

	// Full rollback: the prior install is untouched.
	pack, err := store.GetPack(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "1", pack.Version)
	var count int64
	store.DB.Model(&Hotspot{}).Where("pack_id = ?", 7).Count(&count)
	assert.EqualValues(t, 2, count)

	// Durability pragmas were restored: unrelated writes still succeed and
	// the journal mode is back to WAL.
	require.NoError(t, store.SaveHotspot(ctx, good[0].ID, "still works"))
	var journalMode string
	var syncMode int
	store.DB.Raw("PRAGMA journal_mode").Scan(&journalMode)
	store.DB.Raw("PRAGMA synchronous").Scan(&syncMode)
	assert.Equal(t, "wal", journalMode)
	assert.Equal(t, 1, syncMode, "synchronous restored to NORMAL after a failed install")
}

func TestUninstallCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := testHotspots(7, 3)
	targets := []Target{{ID: hotspots[0].ID, Data: "{}"}}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 7, Name: "Coastal"}, hotspots, targets))
	require.NoError(t, store.SaveHotspot(ctx, hotspots[1].ID, "favorite spot"))

	require.NoError(t, store.UninstallPack(ctx, 7))

	var packs, hs, ts, saved int64
	store.DB.Model(&Pack{}).Count(&packs)
	store.DB.Model(&Hotspot{}).Where("pack_id = ?", 7).Count(&hs)
	store.DB.Model(&Target{}).Where("pack_id = ?", 7).Count(&ts)
	store.DB.Model(&SavedHotspot{}).Count(&saved)
	assert.Zero(t, packs)
	assert.Zero(t, hs)
	assert.Zero(t, ts)
	assert.Zero(t, saved, "saved hotspots referencing the pack must cascade away")
}

func TestUninstallMissingPackIsNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.UninstallPack(context.Background(), 404))
}

func TestDeletePackData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := testHotspots(3, 2)
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 3, Name: "Inland"}, hotspots, nil))
	require.NoError(t, store.DeletePackData(ctx, 3))

	_, err := store.GetPack(ctx, 3)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetHotspotsWithinBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := []Hotspot{
		{ID: "L1", Name: "Inside", Lat: 60.0, Lng: 25.0},
		{ID: "L2", Name: "Too Far North", Lat: 70.0, Lng: 25.0},
		{ID: "L3", Name: "Too Far East", Lat: 60.0, Lng: 40.0},
	}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 1, Name: "Test"}, hotspots, nil))

	found, err := store.GetHotspotsWithinBounds(ctx, geo.Bounds{West: 20, South: 55, East: 30, North: 65}, false)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "L1", found[0].ID)
}

func TestGetHotspotsWithinBoundsAntimeridian(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := []Hotspot{
		{ID: "L1", Name: "West of line", Lat: 0, Lng: 175},
		{ID: "L2", Name: "East of line", Lat: 0, Lng: -175},
		{ID: "L3", Name: "Greenwich", Lat: 0, Lng: 0},
	}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 1, Name: "Pacific"}, hotspots, nil))

	// west > east wraps around ±180: the longitude predicate must be a
	// disjunction, not the empty conjunctive set.
	found, err := store.GetHotspotsWithinBounds(ctx, geo.Bounds{West: 170, South: -10, East: -170, North: 10}, false)
	require.NoError(t, err)
	ids := hotspotIDs(found)
	assert.ElementsMatch(t, []string{"L1", "L2"}, ids)
}

func TestQueriesSavedOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := testHotspots(1, 4)
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 1, Name: "Test"}, hotspots, nil))
	require.NoError(t, store.SaveHotspot(ctx, hotspots[0].ID, ""))
	require.NoError(t, store.SaveHotspot(ctx, hotspots[2].ID, ""))

	all, err := store.GetAllHotspots(ctx, 100, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	saved, err := store.GetAllHotspots(ctx, 100, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{hotspots[0].ID, hotspots[2].ID}, hotspotIDs(saved))

	bounds := geo.Bounds{West: 0, South: 0, East: 90, North: 90}
	savedInBounds, err := store.GetHotspotsWithinBounds(ctx, bounds, true)
	require.NoError(t, err)
	assert.Len(t, savedInBounds, 2)
}

func TestSearchHotspots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hotspots := []Hotspot{
		{ID: "L1", Name: "Vanhankaupunginlahti", Lat: 60.2, Lng: 25.0},
		{ID: "L2", Name: "Suomenoja Pond", Lat: 60.1, Lng: 24.7},
		{ID: "L3", Name: "Old Town Bay South", Lat: 60.2, Lng: 25.0},
	}
	require.NoError(t, store.InstallPack(ctx, PackMeta{ID: 1, Name: "Helsinki"}, hotspots, nil))

	found, err := store.SearchHotspots(ctx, "lahti", 10, false)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "L1", found[0].ID)

	// Ordered by name, limit applied.
	found, err = store.SearchHotspots(ctx, "o", 2, false)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Old Town Bay South", found[0].Name)
}

func hotspotIDs(hotspots []Hotspot) []string {
	ids := make([]string, len(hotspots))
	for i := range hotspots {
		ids[i] = hotspots[i].ID
	}
	return ids
}
