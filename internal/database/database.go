package database

import (
	"errors"
	"fmt"
	"log"

	"cache-store-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the named store database and runs the version-gated
// migration. The returned handle is owned by the caller; no package-level
// connection state is kept.
//
// storeID names the database: the file "<storeID>.db", or the literal
// ":memory:" for an ephemeral store. A version bump rebuilds the cache
// entries table (the previous store is replaced); opening with a version
// lower than the stored one is refused. Client credentials survive upgrades.
func Open(storeID string, version int, verbose bool) (*gorm.DB, error) {
	if storeID == "" {
		return nil, errors.New("store identifier is required")
	}
	if version < 1 {
		return nil, fmt.Errorf("store version must be >= 1, got %d", version)
	}

	dsn := storeID
	if dsn != ":memory:" {
		dsn = storeID + ".db"
	}

	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	// Open SQLite database file (will be created if it doesn't exist initially)
	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db, storeID, version, verbose); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	if verbose {
		log.Printf("store %q ready at schema version %d", storeID, version)
	}
	return db, nil
}

// migrate brings the schema to the requested version. The store version lives
// in a meta row keyed by store identifier; an upgrade drops the entries table
// before recreating it so stale records from the previous version cannot leak
// into the new one.
func migrate(db *gorm.DB, storeID string, version int, verbose bool) error {
	if err := db.AutoMigrate(&models.StoreMeta{}); err != nil {
		return fmt.Errorf("failed to migrate store meta: %w", err)
	}

	var meta models.StoreMeta
	err := db.Where("name = ?", storeID).First(&meta).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		meta = models.StoreMeta{Name: storeID, Version: version}
		if err := db.Create(&meta).Error; err != nil {
			return fmt.Errorf("failed to record store version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read store version: %w", err)
	case meta.Version > version:
		return fmt.Errorf("store %q is at version %d, refusing to open at older version %d", storeID, meta.Version, version)
	case meta.Version < version:
		if verbose {
			log.Printf("upgrading store %q from version %d to %d, entries will be cleared", storeID, meta.Version, version)
		}
		migrator := db.Migrator()
		if migrator.HasTable(&models.CacheEntry{}) {
			if err := migrator.DropTable(&models.CacheEntry{}); err != nil {
				return fmt.Errorf("failed to replace cache store: %w", err)
			}
		}
		if err := db.Model(&models.StoreMeta{}).Where("name = ?", storeID).Update("version", version).Error; err != nil {
			return fmt.Errorf("failed to record store version: %w", err)
		}
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	if err := db.AutoMigrate(&models.CacheEntry{}, &models.Client{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
