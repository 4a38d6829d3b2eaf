package models

import (
	"time"
)

// StoreMeta records the schema version of a named store so that reopening the
// database can detect version upgrades and rebuild the entries table.
type StoreMeta struct {
	Name      string `gorm:"primaryKey;size:128"`
	Version   int    `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for StoreMeta Model
func (StoreMeta) TableName() string {
	return "store_meta"
}
