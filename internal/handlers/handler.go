package handlers

import (
	"net/http"

	"cache-store-api/internal/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler bundles the dependencies shared by the HTTP handlers.
type Handler struct {
	svc *cache.Service
	db  *gorm.DB
}

// New constructs a Handler backed by the given cache service. The database
// handle is used for the client registry, which persists alongside the cache
// entries.
func New(svc *cache.Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  h.svc.StoreID(),
		"ready":  h.svc.Ready(),
	})
}
