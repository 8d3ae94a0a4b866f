package datastore

import (
	"time"
)

// Pack represents an installed regional hotspot dataset.
type Pack struct {
	ID          int       `gorm:"primaryKey"`
	Name        string    `gorm:"column:name"`
	Hotspots    int       `gorm:"column:hotspots"` // number of hotspot rows owned by this pack
	InstalledAt time.Time `gorm:"column:installed_at"`
	Version     string    `gorm:"column:version"`
	// Remote last-modified timestamp, opaque to the store. Named to keep
	// GORM from treating it as an auto-update timestamp.
	RemoteUpdatedAt string `gorm:"column:updated_at"`
}

// TableName overrides the GORM default to keep the on-disk schema stable.
func (Pack) TableName() string {
	return "packs"
}

// Hotspot is a single birding location owned by exactly one pack.
type Hotspot struct {
	ID          string  `gorm:"primaryKey"`
	Name        string  `gorm:"column:name"`
	Species     int     `gorm:"column:species"` // species count, drives marker color
	Lat         float64 `gorm:"column:lat;index:idx_hotspots_lat_lng,priority:1"`
	Lng         float64 `gorm:"column:lng;index:idx_hotspots_lat_lng,priority:2"`
	Country     string  `gorm:"column:country"`
	State       string  `gorm:"column:state"`
	County      string  `gorm:"column:county"`
	CountryName string  `gorm:"column:country_name"`
	StateName   string  `gorm:"column:state_name"`
	CountyName  string  `gorm:"column:county_name"`
	PackID      int     `gorm:"column:pack_id;index:idx_hotspots_pack_id"`
}

func (Hotspot) TableName() string {
	return "hotspots"
}

// Target holds per-hotspot species frequency statistics. The payload is
// stored as an opaque serialized column since it is never filtered or
// sorted in SQL, only decoded after retrieval.
type Target struct {
	ID     string `gorm:"primaryKey"` // equals the owning hotspot id
	Data   string `gorm:"column:data"`
	PackID int    `gorm:"column:pack_id;index:idx_targets_pack_id"`
}

func (Target) TableName() string {
	return "targets"
}

// SavedHotspot is a user bookmark on a pack-provided hotspot. Uninstalling
// the owning pack cascades the bookmark away.
type SavedHotspot struct {
	HotspotID string    `gorm:"primaryKey;column:hotspot_id"`
	SavedAt   time.Time `gorm:"column:saved_at;index:idx_saved_hotspots_saved_at"`
	Notes     string    `gorm:"column:notes"`
	Hotspot   *Hotspot  `gorm:"foreignKey:HotspotID;constraint:OnDelete:CASCADE"`
}

func (SavedHotspot) TableName() string {
	return "saved_hotspots"
}

// SavedPlace is a user-created custom pin, fully independent of packs.
type SavedPlace struct {
	ID      string    `gorm:"primaryKey"`
	Name    string    `gorm:"column:name"`
	Notes   string    `gorm:"column:notes"`
	Icon    string    `gorm:"column:icon"`
	Lat     float64   `gorm:"column:lat"`
	Lng     float64   `gorm:"column:lng"`
	SavedAt time.Time `gorm:"column:saved_at;index:idx_saved_places_saved_at"`
}

func (SavedPlace) TableName() string {
	return "saved_places"
}

// PackMeta carries the metadata written to the packs row during install.
type PackMeta struct {
	ID        int
	Name      string
	Version   string
	UpdatedAt string
}
