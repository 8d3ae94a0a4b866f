// Package installer orchestrates pack installation: download, bulk write,
// defensive cleanup on failure, and data-changed notification for callers.
package installer

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/download"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/logging"
	"github.com/tphakala/hotspots-go/internal/packindex"
	"golang.org/x/sync/semaphore"
)

// ErrInstallInFlight is returned when an install or uninstall is requested
// while another one is still running. The engine never runs two pack write
// operations concurrently; callers may retry once the current one finishes.
var ErrInstallInFlight = errors.NewStd("installer: another pack operation is in progress")

// Service coordinates pack installs and uninstalls against the store.
type Service struct {
	store  datastore.Interface
	client *download.Client
	index  *packindex.Service
	log    *slog.Logger

	// gate serializes pack write operations; weight 1 means one in flight.
	gate *semaphore.Weighted

	onChange []func()
}

// NewService builds an installer service.
func NewService(store datastore.Interface, client *download.Client, index *packindex.Service) *Service {
	return &Service{
		store:  store,
		client: client,
		index:  index,
		log:    logging.ForService("installer"),
		gate:   semaphore.NewWeighted(1),
	}
}

// OnDataChanged registers a callback invoked after any successful install
// or uninstall. The engine does not push data to callers; they re-query.
func (s *Service) OnDataChanged(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) notifyChanged() {
	for _, fn := range s.onChange {
		fn()
	}
}

// InstallFromIndex looks up the pack in the remote index and installs it.
func (s *Service) InstallFromIndex(ctx context.Context, packID int, onProgress download.ProgressFunc) error {
	idx, err := s.index.Fetch(ctx)
	if err != nil {
		return err
	}
	entry := idx.FindByID(packID)
	if entry == nil {
		return errors.Newf("pack %d not found in the remote index", packID).
			Component("installer").
			Category(errors.CategoryNotFound).
			Context("pack_id", packID).
			Build()
	}
	return s.InstallEntry(ctx, entry, onProgress)
}

// InstallEntry downloads the pack payload and writes it to the store,
// replacing any prior version of the same pack. Only the download phase is
// cancellable; once the store transaction starts it completes or fails as
// a unit.
func (s *Service) InstallEntry(ctx context.Context, entry *packindex.Entry, onProgress download.ProgressFunc) error {
	if !s.gate.TryAcquire(1) {
		return errors.New(ErrInstallInFlight).
			Component("installer").
			Category(errors.CategoryState).
			Context("pack_id", entry.ID).
			Build()
	}
	defer s.gate.Release(1)

	payload, err := download.DownloadJSON[packindex.Payload](ctx, s.client, entry.URL, entry.Size, onProgress)
	if err != nil {
		// Cancellation is a silent stop, not a failure.
		if !errors.IsCancellation(err) {
			s.log.Error("pack download failed", "pack_id", entry.ID, "pack_name", entry.Name, "error", err)
		}
		return err
	}

	hotspots, targets, err := convertPayload(entry.ID, payload)
	if err != nil {
		return err
	}

	meta := datastore.PackMeta{
		ID:        entry.ID,
		Name:      entry.Name,
		Version:   payloadVersion(entry, payload),
		UpdatedAt: payload.UpdatedAt,
	}

	if err := s.store.InstallPack(ctx, meta, hotspots, targets); err != nil {
		// The transaction rolled back; clear any partial residue anyway.
		if cleanupErr := s.store.DeletePackData(context.WithoutCancel(ctx), entry.ID); cleanupErr != nil {
			s.log.Warn("defensive cleanup after failed install also failed",
				"pack_id", entry.ID, "error", cleanupErr)
		}
		return errors.Newf("installing pack %q: %w", entry.Name, err).
			Component("installer").
			Category(errors.CategoryInstall).
			Context("pack_id", entry.ID).
			Context("pack_name", entry.Name).
			Build()
	}

	s.notifyChanged()
	return nil
}

// Uninstall removes an installed pack. Unknown pack ids are a no-op.
func (s *Service) Uninstall(ctx context.Context, packID int) error {
	if !s.gate.TryAcquire(1) {
		return errors.New(ErrInstallInFlight).
			Component("installer").
			Category(errors.CategoryState).
			Context("pack_id", packID).
			Build()
	}
	defer s.gate.Release(1)

	if err := s.store.UninstallPack(ctx, packID); err != nil {
		return err
	}
	s.notifyChanged()
	return nil
}

// Update describes an installed pack with a newer remote version.
type Update struct {
	Installed datastore.Pack
	Remote    packindex.Entry
}

// CheckUpdates compares installed packs against the remote index and
// returns those with a newer remote version.
func (s *Service) CheckUpdates(ctx context.Context) ([]Update, error) {
	idx, err := s.index.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	packs, err := s.store.GetPacks(ctx)
	if err != nil {
		return nil, err
	}

	var updates []Update
	for _, pack := range packs {
		entry := idx.FindByID(pack.ID)
		if entry == nil {
			continue
		}
		if entry.UpdatedAt != pack.RemoteUpdatedAt {
			updates = append(updates, Update{Installed: pack, Remote: *entry})
		}
	}
	return updates, nil
}

// convertPayload turns wire records into store rows. Target payloads are
// re-encoded into the opaque data column.
func convertPayload(packID int, payload *packindex.Payload) ([]datastore.Hotspot, []datastore.Target, error) {
	hotspots := make([]datastore.Hotspot, len(payload.Hotspots))
	for i, h := range payload.Hotspots {
		hotspots[i] = datastore.Hotspot{
			ID:          h.ID,
			Name:        h.Name,
			Species:     h.Species,
			Lat:         h.Lat,
			Lng:         h.Lng,
			Country:     h.Country,
			State:       h.State,
			County:      h.County,
			CountryName: h.CountryName,
			StateName:   h.StateName,
			CountyName:  h.CountyName,
			PackID:      packID,
		}
	}

	targets := make([]datastore.Target, len(payload.Targets))
	for i := range payload.Targets {
		data, err := payload.Targets[i].EncodeData()
		if err != nil {
			return nil, nil, errors.New(err).
				Component("installer").
				Category(errors.CategoryJSONParsing).
				Context("hotspot_id", payload.Targets[i].ID).
				Build()
		}
		targets[i] = datastore.Target{
			ID:     payload.Targets[i].ID,
			Data:   data,
			PackID: packID,
		}
	}
	return hotspots, targets, nil
}

// payloadVersion prefers the payload's own version marker, falling back to
// the index entry.
func payloadVersion(entry *packindex.Entry, payload *packindex.Payload) string {
	if payload.V != 0 {
		return strconv.Itoa(payload.V)
	}
	if entry.V != 0 {
		return strconv.Itoa(entry.V)
	}
	return ""
}
