package models

import (
	"gorm.io/gorm"
)

// Client represents an API client allowed to talk to the cache service.
// KeyHash stores a bcrypt hash of the client's API key; the plaintext key is
// only ever returned once, at creation time.
type Client struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"unique;not null"`
	KeyHash string `json:"-" gorm:"not null"`
	gorm.Model
}

// TableName specifies the table name for Client Model
func (Client) TableName() string {
	return "clients"
}
