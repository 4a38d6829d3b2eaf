package cache

import "errors"

var (
	// ErrNotInitialized is returned by accessors called before Init has
	// established the store connection.
	ErrNotInitialized = errors.New("cache: store not initialized")

	// ErrNotFound is returned when a key is absent from the store.
	ErrNotFound = errors.New("cache: key not found")
)
