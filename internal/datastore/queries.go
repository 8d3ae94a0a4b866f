// queries.go: spatial and text read queries over installed hotspots
package datastore

import (
	"context"

	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/geo"
	"gorm.io/gorm"
)

// withSavedOnly narrows a hotspot query to user-saved rows via an inner
// join instead of scanning the full table.
func withSavedOnly(query *gorm.DB, savedOnly bool) *gorm.DB {
	if !savedOnly {
		return query
	}
	return query.Joins("INNER JOIN saved_hotspots ON saved_hotspots.hotspot_id = hotspots.id")
}

// GetHotspotsWithinBounds returns all hotspots inside the bounding box.
// A box whose west edge is east of its east edge wraps the antimeridian,
// and the longitude predicate becomes a disjunction.
func (ds *DataStore) GetHotspotsWithinBounds(ctx context.Context, bounds geo.Bounds, savedOnly bool) ([]Hotspot, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	query := db.WithContext(ctx).Model(&Hotspot{}).
		Where("lat >= ? AND lat <= ?", bounds.South, bounds.North)

	if bounds.WrapsAntimeridian() {
		query = query.Where("lng >= ? OR lng <= ?", bounds.West, bounds.East)
	} else {
		query = query.Where("lng >= ? AND lng <= ?", bounds.West, bounds.East)
	}

	query = withSavedOnly(query, savedOnly)

	var hotspots []Hotspot
	if err := query.Find(&hotspots).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "hotspots_within_bounds").
			Build()
	}
	return hotspots, nil
}

// SearchHotspots performs a substring match on hotspot names, ordered by
// name with the given limit.
func (ds *DataStore) SearchHotspots(ctx context.Context, search string, limit int, savedOnly bool) ([]Hotspot, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	query := db.WithContext(ctx).Model(&Hotspot{}).
		Where("hotspots.name LIKE ?", "%"+search+"%").
		Order("hotspots.name ASC").
		Limit(limit)
	query = withSavedOnly(query, savedOnly)

	var hotspots []Hotspot
	if err := query.Find(&hotspots).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "search_hotspots").
			Context("query", search).
			Build()
	}
	return hotspots, nil
}

// GetAllHotspots is the fallback listing used when no location is
// available, ordered by name.
func (ds *DataStore) GetAllHotspots(ctx context.Context, limit int, savedOnly bool) ([]Hotspot, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	query := db.WithContext(ctx).Model(&Hotspot{}).
		Order("hotspots.name ASC").
		Limit(limit)
	query = withSavedOnly(query, savedOnly)

	var hotspots []Hotspot
	if err := query.Find(&hotspots).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_hotspots").
			Build()
	}
	return hotspots, nil
}

// GetHotspot retrieves a single hotspot by id.
func (ds *DataStore) GetHotspot(ctx context.Context, id string) (*Hotspot, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var hotspot Hotspot
	if err := db.WithContext(ctx).First(&hotspot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("hotspot %s not found", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("hotspot_id", id).
			Build()
	}
	return &hotspot, nil
}

// GetTarget retrieves the target-species row for a hotspot. Not every
// hotspot has one; absence is reported as a not-found error.
func (ds *DataStore) GetTarget(ctx context.Context, hotspotID string) (*Target, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var target Target
	if err := db.WithContext(ctx).First(&target, "id = ?", hotspotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("no target data for hotspot %s", hotspotID).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("hotspot_id", hotspotID).
			Build()
	}
	return &target, nil
}
