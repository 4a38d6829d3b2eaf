package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cache-store-api/internal/cache"
	"cache-store-api/internal/timeutil"

	"github.com/gin-gonic/gin"
)

// PutEntryRequest represents the write payload for a cache entry.
// Expiration is absolute; ttlUnit/ttlAmount express it relative to now
// (unit is one of year, quarter, month, week, day, hour, minute, second).
// When neither is given the entry expires one hour from now.
type PutEntryRequest struct {
	Value      json.RawMessage `json:"value" binding:"required"`
	Expiration *time.Time      `json:"expiration"`
	TTLUnit    string          `json:"ttlUnit"`
	TTLAmount  int             `json:"ttlAmount"`
}

// PutEntryResponse reports the stored key and its effective expiration
type PutEntryResponse struct {
	Key        string    `json:"key"`
	Expiration time.Time `json:"expiration"`
}

// EntryResponse represents a cache entry returned to the caller
type EntryResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// storeError maps cache service failures to HTTP responses.
func storeError(c *gin.Context, err error, message string) {
	if errors.Is(err, cache.ErrNotInitialized) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cache store is not initialized"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

/*
*
GetEntry handles GET /api/cache/:key
Returns the stored value for a key. Expired entries are removed on read and
reported as missing.
*/
func (h *Handler) GetEntry(c *gin.Context) {
	key := c.Param("key")

	value, found, err := h.svc.Lookup(c.Request.Context(), key)
	if err != nil {
		storeError(c, err, "Failed to read entry")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, EntryResponse{
		Key:   key,
		Value: value,
	})
}

// PutEntry handles PUT /api/cache/:key
// Stores a value under a key, overwriting any existing entry
func (h *Handler) PutEntry(c *gin.Context) {
	key := c.Param("key")

	var req PutEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Resolve the effective expiration up front so the response can echo it
	var expiresAt time.Time
	switch {
	case req.Expiration != nil:
		expiresAt = *req.Expiration
	case req.TTLUnit != "":
		if req.TTLAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ttlAmount must be a positive integer"})
			return
		}
		shifted, ok := timeutil.Add(time.Now(), timeutil.Unit(req.TTLUnit), req.TTLAmount)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ttlUnit"})
			return
		}
		expiresAt = shifted
	default:
		expiresAt = cache.DefaultExpiration(time.Now())
	}

	ok, err := h.svc.Put(c.Request.Context(), key, req.Value, expiresAt)
	if err != nil {
		storeError(c, err, "Failed to store entry")
		return
	}
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store entry"})
		return
	}

	c.JSON(http.StatusOK, PutEntryResponse{
		Key:        key,
		Expiration: expiresAt,
	})
}

// DeleteEntry handles DELETE /api/cache/:key
// Removes the entry for a key; absent keys are not an error
func (h *Handler) DeleteEntry(c *gin.Context) {
	key := c.Param("key")

	if err := h.svc.Delete(c.Request.Context(), key); err != nil {
		storeError(c, err, "Failed to delete entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Entry deleted successfully",
		"key":     key,
	})
}

// FlushStore handles DELETE /api/cache
// Removes all entries in the store
func (h *Handler) FlushStore(c *gin.Context) {
	if err := h.svc.Flush(c.Request.Context()); err != nil {
		storeError(c, err, "Failed to flush store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cache store flushed successfully",
	})
}

// GetStats handles GET /api/stats
// Returns entry counts and accumulated access counters
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		storeError(c, err, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
