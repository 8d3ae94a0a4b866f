// interfaces.go: this code defines the interface for the store operations
package datastore

import (
	"context"

	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/geo"
	"gorm.io/gorm"
)

// ErrStoreNotOpen is returned when a store operation is attempted before
// Open has completed. Callers must sequence initialization themselves.
var ErrStoreNotOpen = errors.NewStd("datastore: store is not open")

// Interface abstracts the underlying database implementation and defines
// the store operations available to the rest of the engine.
type Interface interface {
	Open() error
	Close() error

	// Pack lifecycle
	InstallPack(ctx context.Context, meta PackMeta, hotspots []Hotspot, targets []Target) error
	UninstallPack(ctx context.Context, packID int) error
	DeletePackData(ctx context.Context, packID int) error
	GetPack(ctx context.Context, packID int) (*Pack, error)
	GetPacks(ctx context.Context) ([]Pack, error)

	// Spatial and text queries
	GetHotspotsWithinBounds(ctx context.Context, bounds geo.Bounds, savedOnly bool) ([]Hotspot, error)
	SearchHotspots(ctx context.Context, query string, limit int, savedOnly bool) ([]Hotspot, error)
	GetAllHotspots(ctx context.Context, limit int, savedOnly bool) ([]Hotspot, error)
	GetHotspot(ctx context.Context, id string) (*Hotspot, error)
	GetTarget(ctx context.Context, hotspotID string) (*Target, error)

	// Saved-items ledger
	SaveHotspot(ctx context.Context, hotspotID, notes string) error
	UnsaveHotspot(ctx context.Context, hotspotID string) error
	IsHotspotSaved(ctx context.Context, hotspotID string) (bool, error)
	GetSavedHotspots(ctx context.Context) ([]SavedHotspot, error)
	SavePlace(ctx context.Context, place *SavedPlace) (string, error)
	GetSavedPlaceByID(ctx context.Context, id string) (*SavedPlace, error)
	GetSavedPlaces(ctx context.Context) ([]SavedPlace, error)
	DeletePlace(ctx context.Context, id string) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB        *gorm.DB // GORM database instance, nil until Open succeeds
	BatchSize int      // rows per multi-row insert during bulk load
}

// New creates a new store instance based on the provided settings.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{
		DataStore: DataStore{BatchSize: settings.Install.BatchSize},
		Settings:  settings,
	}
}

// ready returns the database handle or an uninitialized-store error.
func (ds *DataStore) ready() (*gorm.DB, error) {
	if ds.DB == nil {
		return nil, errors.New(ErrStoreNotOpen).
			Component("datastore").
			Category(errors.CategoryState).
			Build()
	}
	return ds.DB, nil
}

// batchSize returns the configured bulk-insert batch size, falling back to
// the application default when unset.
func (ds *DataStore) batchSize() int {
	if ds.BatchSize > 0 {
		return ds.BatchSize
	}
	return conf.DefaultBatchSize
}
