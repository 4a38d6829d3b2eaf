package handlers

import (
	"errors"
	"net/http"

	"cache-store-api/internal/auth"
	"cache-store-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenRequest represents the token request payload
type TokenRequest struct {
	Name   string `json:"name" binding:"required"`
	APIKey string `json:"apiKey" binding:"required"`
}

// TokenResponse represents the issued token
type TokenResponse struct {
	Token      string `json:"token"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Message    string `json:"message"`
}

// IssueToken handles POST /api/auth/token
// Exchanges client credentials for a JWT. While no clients are registered the
// endpoint issues a bootstrap token for any credentials so the first client
// can be created; once clients exist the API key must match.
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Client name and API key are required.",
		})
		return
	}

	var count int64
	if err := h.db.Model(&models.Client{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check registered clients",
		})
		return
	}

	clientID := "client-bootstrap"
	clientName := req.Name
	if count > 0 {
		var client models.Client
		if err := h.db.Where("name = ?", req.Name).First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid client credentials"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up client"})
			}
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(client.KeyHash), []byte(req.APIKey)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid client credentials"})
			return
		}
		clientID = client.ID
		clientName = client.Name
	}

	// Generate JWT token
	token, err := auth.GenerateToken(clientID, clientName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:      token,
		ClientID:   clientID,
		ClientName: clientName,
		Message:    "Token issued successfully",
	})
}
