// saved.go: CRUD for user-created saved hotspots and saved places. These
// have a lifecycle independent of packs, apart from the cascade that drops
// a saved hotspot when its pack is uninstalled.
package datastore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tphakala/hotspots-go/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveHotspot bookmarks a hotspot. Saving an already-saved hotspot
// overwrites the notes and saved-timestamp rather than adding a row.
func (ds *DataStore) SaveHotspot(ctx context.Context, hotspotID, notes string) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	saved := SavedHotspot{
		HotspotID: hotspotID,
		SavedAt:   time.Now(),
		Notes:     notes,
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&saved).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("hotspot_id", hotspotID).
			Context("operation", "save_hotspot").
			Build()
	}
	return nil
}

// UnsaveHotspot removes a bookmark. Unsaving a hotspot that is not saved
// is a no-op.
func (ds *DataStore) UnsaveHotspot(ctx context.Context, hotspotID string) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&SavedHotspot{}, "hotspot_id = ?", hotspotID).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("hotspot_id", hotspotID).
			Context("operation", "unsave_hotspot").
			Build()
	}
	return nil
}

// IsHotspotSaved reports whether a bookmark exists for the hotspot.
func (ds *DataStore) IsHotspotSaved(ctx context.Context, hotspotID string) (bool, error) {
	db, err := ds.ready()
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&SavedHotspot{}).
		Where("hotspot_id = ?", hotspotID).
		Count(&count).Error; err != nil {
		return false, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("hotspot_id", hotspotID).
			Build()
	}
	return count > 0, nil
}

// GetSavedHotspots lists bookmarks newest first.
func (ds *DataStore) GetSavedHotspots(ctx context.Context) ([]SavedHotspot, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var saved []SavedHotspot
	if err := db.WithContext(ctx).Order("saved_at DESC").Find(&saved).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_saved_hotspots").
			Build()
	}
	return saved, nil
}

// SavePlace creates or updates a user place and returns its id. A place
// without an id is new and gets a locally generated one.
func (ds *DataStore) SavePlace(ctx context.Context, place *SavedPlace) (string, error) {
	db, err := ds.ready()
	if err != nil {
		return "", err
	}

	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	if place.SavedAt.IsZero() {
		place.SavedAt = time.Now()
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(place).Error; err != nil {
		return "", errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("place_id", place.ID).
			Context("operation", "save_place").
			Build()
	}
	return place.ID, nil
}

// GetSavedPlaceByID retrieves one saved place.
func (ds *DataStore) GetSavedPlaceByID(ctx context.Context, id string) (*SavedPlace, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var place SavedPlace
	if err := db.WithContext(ctx).First(&place, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("saved place %s not found", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("place_id", id).
			Build()
	}
	return &place, nil
}

// GetSavedPlaces lists saved places newest first.
func (ds *DataStore) GetSavedPlaces(ctx context.Context) ([]SavedPlace, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var places []SavedPlace
	if err := db.WithContext(ctx).Order("saved_at DESC").Find(&places).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_saved_places").
			Build()
	}
	return places, nil
}

// DeletePlace removes a saved place. Deleting a missing place is a no-op.
func (ds *DataStore) DeletePlace(ctx context.Context, id string) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&SavedPlace{}, "id = ?", id).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("place_id", id).
			Context("operation", "delete_place").
			Build()
	}
	return nil
}
