// Package search is the read-side query service over installed hotspots:
// expanding-radius nearby lookup, text search and plain listing, with
// distance-aware post-processing.
package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/geo"
	"github.com/tphakala/hotspots-go/internal/logging"
)

// Result is one hotspot with its distance to the query location.
// DistanceKm is negative when no location was supplied.
type Result struct {
	Hotspot    datastore.Hotspot
	DistanceKm float64
}

// Service answers hotspot queries for list and map views.
type Service struct {
	store        datastore.Interface
	radiiKm      []float64
	targetCount  int
	displayLimit int
	locale       string
	log          *slog.Logger
}

// New builds a search service from settings.
func New(settings *conf.Settings, store datastore.Interface) *Service {
	radii := settings.Nearby.RadiiKm
	if len(radii) == 0 {
		radii = conf.DefaultRadiiKm
	}
	targetCount := settings.Nearby.TargetCount
	if targetCount <= 0 {
		targetCount = conf.DefaultNearbyTarget
	}
	displayLimit := settings.Nearby.DisplayLimit
	if displayLimit <= 0 {
		displayLimit = conf.DefaultDisplayLimit
	}
	return &Service{
		store:        store,
		radiiKm:      radii,
		targetCount:  targetCount,
		displayLimit: displayLimit,
		locale:       settings.Locale,
		log:          logging.ForService("search"),
	}
}

// Nearby finds hotspots around a location by trying a sequence of
// expanding radii, stopping at the first radius that yields at least the
// target result count. When no radius reaches the target, the largest
// radius's result set is returned as-is, however thin; sparse areas
// legitimately produce few results.
func (s *Service) Nearby(ctx context.Context, location geo.Point, savedOnly bool) ([]Result, error) {
	var hotspots []datastore.Hotspot
	for _, radius := range s.radiiKm {
		bounds := geo.RadiusBounds(location, radius)
		found, err := s.store.GetHotspotsWithinBounds(ctx, bounds, savedOnly)
		if err != nil {
			return nil, err
		}
		hotspots = found
		if len(found) >= s.targetCount {
			break
		}
	}
	return s.postProcess(hotspots, &location), nil
}

// Within returns hotspots inside an explicit bounding box, for map
// viewport queries. No distance sorting is applied.
func (s *Service) Within(ctx context.Context, bounds geo.Bounds, savedOnly bool) ([]Result, error) {
	hotspots, err := s.store.GetHotspotsWithinBounds(ctx, bounds, savedOnly)
	if err != nil {
		return nil, err
	}
	return s.postProcess(hotspots, nil), nil
}

// Search matches hotspot names by substring, ordered by name in the store
// with the limit applied there, then distance-sorted when a location is
// available.
func (s *Service) Search(ctx context.Context, query string, limit int, savedOnly bool, location *geo.Point) ([]Result, error) {
	hotspots, err := s.store.SearchHotspots(ctx, query, limit, savedOnly)
	if err != nil {
		return nil, err
	}
	return s.postProcess(hotspots, location), nil
}

// All lists hotspots by name, the fallback when no location is available.
func (s *Service) All(ctx context.Context, limit int, savedOnly bool, location *geo.Point) ([]Result, error) {
	hotspots, err := s.store.GetAllHotspots(ctx, limit, savedOnly)
	if err != nil {
		return nil, err
	}
	return s.postProcess(hotspots, location), nil
}

// FormatDistance renders a result distance for display in the configured
// locale's customary unit.
func (s *Service) FormatDistance(km float64) string {
	return geo.FormatDistance(km, s.locale)
}

// postProcess computes distances, sorts nearest-first when a location is
// available, and deduplicates by id. The display limit applies only after
// a distance sort, so the closest items are always the ones kept; without
// a location the set is unordered and truncating it would drop arbitrary
// rows (viewport queries return everything in bounds).
func (s *Service) postProcess(hotspots []datastore.Hotspot, location *geo.Point) []Result {
	results := make([]Result, len(hotspots))
	for i := range hotspots {
		results[i] = Result{Hotspot: hotspots[i], DistanceKm: -1}
		if location != nil {
			results[i].DistanceKm = geo.DistanceKm(*location, geo.Point{
				Lat: hotspots[i].Lat,
				Lng: hotspots[i].Lng,
			})
		}
	}

	if location != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	}

	seen := make(map[string]bool, len(results))
	deduped := results[:0]
	for _, r := range results {
		if seen[r.Hotspot.ID] {
			continue
		}
		seen[r.Hotspot.ID] = true
		deduped = append(deduped, r)
		if location != nil && len(deduped) == s.displayLimit {
			break
		}
	}
	return deduped
}
