package models

import (
	"time"
)

// CacheEntry represents a single cached record in the store.
// Value holds the caller's payload serialized as JSON; ExpiresAt is the
// absolute point in time after which the entry is treated as absent.
// No soft-delete column: expired or deleted entries must really leave the table.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"type:blob;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for CacheEntry Model
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// Expired reports whether the entry is past its expiration at the given time.
func (e CacheEntry) Expired(at time.Time) bool {
	return !e.ExpiresAt.After(at)
}
