// manage.go: pack install, uninstall and the bulk-load durability scope
package datastore

import (
	"context"
	"time"

	"github.com/tphakala/hotspots-go/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bulkLoadScope relaxes SQLite durability settings for the duration of one
// bulk write and guarantees they are restored on every exit path. The
// relaxed mode trades crash safety of the in-flight transaction for
// throughput; the transaction itself still commits or rolls back as a unit.
// The store runs on a single pooled connection (see Open), so every pragma
// lands on the same connection the transaction will use and the restore
// cannot race a concurrent checkout.
type bulkLoadScope struct {
	db *gorm.DB
}

func beginBulkLoad(db *gorm.DB) *bulkLoadScope {
	// Journal mode cannot change inside a transaction, so the scope is
	// entered before Begin and left after Commit/Rollback.
	s := &bulkLoadScope{db: db}
	s.exec("PRAGMA synchronous = OFF")
	s.exec("PRAGMA journal_mode = MEMORY")
	s.exec("PRAGMA cache_size = -64000")
	return s
}

// end restores safe durability defaults. It must run unconditionally,
// including on error, so a failed install cannot leave the store in a
// relaxed durability mode for unrelated future writes.
func (s *bulkLoadScope) end() {
	s.exec("PRAGMA synchronous = NORMAL")
	s.exec("PRAGMA journal_mode = WAL")
	s.exec("PRAGMA cache_size = -2000")
}

// exec runs one pragma statement. Pragma failures do not stop the install
// or the restore sequence, but they are never silent.
func (s *bulkLoadScope) exec(pragma string) {
	if err := s.db.Exec(pragma).Error; err != nil {
		GetLogger().Warn("bulk-load pragma failed", "pragma", pragma, "error", err)
	}
}

// InstallPack writes a fully parsed pack payload into the store, replacing
// any prior version of the same pack. The caller has already fetched and
// decoded the payload; no network activity happens here.
//
// The write order inside the single transaction is: delete old targets,
// delete old hotspots, upsert the pack row, bulk-insert hotspots, then
// bulk-insert targets. A pack with zero hotspots still gets its pack row.
func (ds *DataStore) InstallPack(ctx context.Context, meta PackMeta, hotspots []Hotspot, targets []Target) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	start := time.Now()
	batch := ds.batchSize()

	for i := range hotspots {
		hotspots[i].PackID = meta.ID
	}
	for i := range targets {
		targets[i].PackID = meta.ID
	}

	pack := Pack{
		ID:              meta.ID,
		Name:            meta.Name,
		Hotspots:        len(hotspots),
		InstalledAt:     time.Now(),
		Version:         meta.Version,
		RemoteUpdatedAt: meta.UpdatedAt,
	}

	scope := beginBulkLoad(db)
	defer scope.end()

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pack_id = ?", meta.ID).Delete(&Target{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pack_id = ?", meta.ID).Delete(&Hotspot{}).Error; err != nil {
			return err
		}
		// Insert-or-replace on primary key, overwriting all columns.
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&pack).Error; err != nil {
			return err
		}
		if len(hotspots) > 0 {
			if err := tx.CreateInBatches(hotspots, batch).Error; err != nil {
				return err
			}
		}
		if len(targets) > 0 {
			if err := tx.CreateInBatches(targets, batch).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		return errors.New(txErr).
			Component("datastore").
			Category(errors.CategoryInstall).
			Context("pack_id", meta.ID).
			Context("pack_name", meta.Name).
			Timing("install_pack", time.Since(start)).
			Build()
	}

	GetLogger().Info("pack installed",
		"pack_id", meta.ID,
		"pack_name", meta.Name,
		"hotspots", len(hotspots),
		"targets", len(targets),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// UninstallPack removes a pack and all rows it owns in one transaction.
// Uninstalling a pack id that is not installed is a no-op.
func (ds *DataStore) UninstallPack(ctx context.Context, packID int) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pack_id = ?", packID).Delete(&Target{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pack_id = ?", packID).Delete(&Hotspot{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Pack{}, packID).Error; err != nil {
			return err
		}
		return nil
	})

	if txErr != nil {
		return errors.New(txErr).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("pack_id", packID).
			Context("operation", "uninstall_pack").
			Build()
	}

	GetLogger().Info("pack uninstalled", "pack_id", packID)
	return nil
}

// DeletePackData removes any pack, hotspot or target rows for the given
// pack id outside a transaction. It is the defensive cleanup path used
// after a failed install, covering partial non-transactional residue, and
// collects rather than stops on individual failures.
func (ds *DataStore) DeletePackData(ctx context.Context, packID int) error {
	db, err := ds.ready()
	if err != nil {
		return err
	}

	var errs []error
	if err := db.WithContext(ctx).Where("pack_id = ?", packID).Delete(&Target{}).Error; err != nil {
		errs = append(errs, err)
	}
	if err := db.WithContext(ctx).Where("pack_id = ?", packID).Delete(&Hotspot{}).Error; err != nil {
		errs = append(errs, err)
	}
	if err := db.WithContext(ctx).Delete(&Pack{}, packID).Error; err != nil {
		errs = append(errs, err)
	}

	if joined := errors.Join(errs...); joined != nil {
		return errors.New(joined).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("pack_id", packID).
			Context("operation", "delete_pack_data").
			Build()
	}
	return nil
}

// GetPack retrieves an installed pack by id.
func (ds *DataStore) GetPack(ctx context.Context, packID int) (*Pack, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var pack Pack
	if err := db.WithContext(ctx).First(&pack, packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("pack %d is not installed", packID).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("pack_id", packID).
			Build()
	}
	return &pack, nil
}

// GetPacks lists all installed packs ordered by name.
func (ds *DataStore) GetPacks(ctx context.Context) ([]Pack, error) {
	db, err := ds.ready()
	if err != nil {
		return nil, err
	}

	var packs []Pack
	if err := db.WithContext(ctx).Order("name ASC").Find(&packs).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_packs").
			Build()
	}
	return packs, nil
}
