package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cache-store-api/internal/models"
	"cache-store-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueToken_BootstrapWhenNoClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db, err := testutil.NewTestService()
	require.NoError(t, err)
	h := New(svc, db)

	r := gin.New()
	r.POST("/api/auth/token", h.IssueToken)

	body, _ := json.Marshal(map[string]string{
		"name":   "first-client",
		"apiKey": "anything-goes",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "client-bootstrap", resp.ClientID)
}

func TestIssueToken_ValidatesAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db, err := testutil.NewTestService()
	require.NoError(t, err)
	h := New(svc, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-key"), bcrypt.DefaultCost)
	require.NoError(t, err)
	client := models.Client{ID: "client-1", Name: "reporting", KeyHash: string(hash)}
	require.NoError(t, db.Create(&client).Error)

	r := gin.New()
	r.POST("/api/auth/token", h.IssueToken)

	// Correct key
	body, _ := json.Marshal(map[string]string{"name": "reporting", "apiKey": "right-key"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "client-1", resp.ClientID)
	require.NotEmpty(t, resp.Token)

	// Wrong key
	body, _ = json.Marshal(map[string]string{"name": "reporting", "apiKey": "wrong-key"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueToken_UnknownClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db, err := testutil.NewTestService()
	require.NoError(t, err)
	h := New(svc, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("some-key"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Client{ID: "client-1", Name: "reporting", KeyHash: string(hash)}).Error)

	r := gin.New()
	r.POST("/api/auth/token", h.IssueToken)

	body, _ := json.Marshal(map[string]string{"name": "nobody", "apiKey": "some-key"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
