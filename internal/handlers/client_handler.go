package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cache-store-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateClientRequest represents the request payload for registering a client
type CreateClientRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateClientResponse carries the plaintext API key, returned only once
type CreateClientResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
}

type ClientResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// newAPIKey generates a random key for a client. Only its bcrypt hash is
// stored.
func newAPIKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CreateClient handles POST /api/clients
// Registers a new API client and returns its generated key
func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Reject duplicate names up front for a clearer error than the unique
	// constraint produces
	var existing models.Client
	err := h.db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A client with this name already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing clients"})
		return
	}

	key, err := newAPIKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API key"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash API key"})
		return
	}

	client := models.Client{
		ID:      fmt.Sprintf("client-%d", time.Now().UnixNano()),
		Name:    req.Name,
		KeyHash: string(hash),
	}

	if err := h.db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, CreateClientResponse{
		ID:     client.ID,
		Name:   client.Name,
		APIKey: key,
	})
}

// ListClients handles GET /api/clients
// Returns all registered clients (without key material)
func (h *Handler) ListClients(c *gin.Context) {
	var clients []models.Client
	if err := h.db.Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	// Map to safe response payload
	resp := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, ClientResponse{
			ID:   client.ID,
			Name: client.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": resp,
		"count":   len(resp),
	})
}
