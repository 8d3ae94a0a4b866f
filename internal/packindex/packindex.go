// Package packindex fetches and caches the remote pack index and answers
// nearest-pack lookups over the per-pack cluster centroids.
package packindex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/download"
	"github.com/tphakala/hotspots-go/internal/geo"
	"github.com/tphakala/hotspots-go/internal/logging"
)

// Entry describes one downloadable pack in the remote index.
type Entry struct {
	V         int          `json:"v"`
	ID        int          `json:"id"`
	Region    string       `json:"region"`
	Name      string       `json:"name"`
	Hotspots  int          `json:"hotspots"`
	Clusters  [][2]float64 `json:"clusters"` // [lat, lng] centroid pairs
	Size      int64        `json:"size"`
	UpdatedAt string       `json:"updatedAt"`
	URL       string       `json:"url"`
}

// Index is the remote pack index document.
type Index struct {
	Packs []Entry `json:"packs"`
}

// FindByID returns the index entry for a pack id, or nil.
func (idx *Index) FindByID(id int) *Entry {
	for i := range idx.Packs {
		if idx.Packs[i].ID == id {
			return &idx.Packs[i]
		}
	}
	return nil
}

// Nearest returns the pack whose closest cluster centroid is nearest to
// the given point, with that distance in km. Packs without clusters are
// skipped. Returns nil when the index is empty.
func (idx *Index) Nearest(p geo.Point) (*Entry, float64) {
	var best *Entry
	bestDist := math.MaxFloat64
	for i := range idx.Packs {
		d := idx.Packs[i].distanceTo(p)
		if d < bestDist {
			bestDist = d
			best = &idx.Packs[i]
		}
	}
	return best, bestDist
}

// NearestN returns up to n packs ordered by distance of their closest
// cluster centroid to the point.
func (idx *Index) NearestN(p geo.Point, n int) []Entry {
	type ranked struct {
		entry Entry
		dist  float64
	}
	candidates := make([]ranked, 0, len(idx.Packs))
	for i := range idx.Packs {
		d := idx.Packs[i].distanceTo(p)
		if d == math.MaxFloat64 {
			continue
		}
		candidates = append(candidates, ranked{idx.Packs[i], d})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]Entry, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].entry
	}
	return out
}

func (e *Entry) distanceTo(p geo.Point) float64 {
	best := math.MaxFloat64
	for _, c := range e.Clusters {
		d := geo.DistanceKm(p, geo.Point{Lat: c[0], Lng: c[1]})
		if d < best {
			best = d
		}
	}
	return best
}

// Payload is the downloadable pack payload referenced by an index entry.
type Payload struct {
	V         int              `json:"v"`
	UpdatedAt string           `json:"updatedAt"`
	Hotspots  []PayloadHotspot `json:"hotspots"`
	Targets   []PayloadTarget  `json:"targets"`
}

// PayloadHotspot is one hotspot record on the wire.
type PayloadHotspot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Species     int     `json:"species"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Country     string  `json:"country"`
	State       string  `json:"state"`
	County      string  `json:"county"`
	CountryName string  `json:"countryName"`
	StateName   string  `json:"stateName"`
	CountyName  string  `json:"countyName"`
}

// PayloadTarget is one target-species record on the wire. The samples and
// species fields are kept raw; the store persists them as one opaque
// column and only the targets reader ever decodes them.
type PayloadTarget struct {
	ID      string          `json:"id"`
	Samples json.RawMessage `json:"samples"`
	Species json.RawMessage `json:"species"`
}

// EncodeData serializes the target's samples and species into the opaque
// text column format used by the store.
func (t *PayloadTarget) EncodeData() (string, error) {
	data, err := json.Marshal(struct {
		Samples json.RawMessage `json:"samples"`
		Species json.RawMessage `json:"species"`
	}{t.Samples, t.Species})
	if err != nil {
		return "", fmt.Errorf("encoding target data for %s: %w", t.ID, err)
	}
	return string(data), nil
}

const cacheKey = "pack-index"

// Service fetches the remote index, reusing a cached copy within the
// configured TTL.
type Service struct {
	client *download.Client
	url    string
	cache  *gocache.Cache
	log    *slog.Logger
}

// NewService builds an index service from settings and a transport client.
func NewService(settings *conf.Settings, client *download.Client) *Service {
	ttl := settings.Index.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		client: client,
		url:    settings.Index.URL,
		cache:  gocache.New(ttl, 2*ttl),
		log:    logging.ForService("packindex"),
	}
}

// Fetch returns the pack index, from cache when fresh.
func (s *Service) Fetch(ctx context.Context) (*Index, error) {
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*Index), nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the index from the remote service, bypassing the cache.
func (s *Service) Refresh(ctx context.Context) (*Index, error) {
	var idx Index
	if err := s.client.FetchJSON(ctx, s.url, &idx); err != nil {
		return nil, err
	}
	s.cache.SetDefault(cacheKey, &idx)
	s.log.Debug("pack index fetched", "packs", len(idx.Packs))
	return &idx, nil
}
