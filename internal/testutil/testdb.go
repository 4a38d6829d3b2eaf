package testutil

import (
	"context"

	"cache-store-api/internal/cache"

	"gorm.io/gorm"
)

// NewTestService creates a cache service backed by an in-memory SQLite store
// and returns it together with its database handle for seeding fixtures.
func NewTestService() (*cache.Service, *gorm.DB, error) {
	svc := cache.New(cache.Config{StoreID: ":memory:"})
	if err := svc.Init(context.Background()); err != nil {
		return nil, nil, err
	}
	db, err := svc.DB()
	if err != nil {
		return nil, nil, err
	}
	return svc, db, nil
}
