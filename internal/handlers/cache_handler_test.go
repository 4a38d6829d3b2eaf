package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cache-store-api/internal/auth"
	"cache-store-api/internal/middleware"
	"cache-store-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newCacheRouter wires the cache endpoints behind JWT auth the way the server
// does, returning the router and a valid bearer token.
func newCacheRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, db, err := testutil.NewTestService()
	require.NoError(t, err)
	h := New(svc, db)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.GET("/cache/:key", h.GetEntry)
	api.PUT("/cache/:key", h.PutEntry)
	api.DELETE("/cache/:key", h.DeleteEntry)
	api.DELETE("/cache", h.FlushStore)
	api.GET("/stats", h.GetStats)

	token, err := auth.GenerateToken("client-1", "tester")
	require.NoError(t, err)
	return r, "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPutThenGetEntry(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/cache/session", token, map[string]any{
		"value": map[string]int{"x": 1},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var put PutEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &put))
	require.Equal(t, "session", put.Key)
	// Default expiration is one hour out
	require.WithinDuration(t, time.Now().Add(time.Hour), put.Expiration, 5*time.Second)

	w = doJSON(t, r, http.MethodGet, "/api/cache/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "session", got.Key)
	require.JSONEq(t, `{"x":1}`, string(got.Value))
}

func TestGetEntry_NotFound(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/cache/absent", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutEntry_TTL(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/cache/report", token, map[string]any{
		"value":     "cached",
		"ttlUnit":   "minute",
		"ttlAmount": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var put PutEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &put))
	require.WithinDuration(t, time.Now().Add(5*time.Minute), put.Expiration, 5*time.Second)
}

func TestPutEntry_AbsoluteExpiration(t *testing.T) {
	r, token := newCacheRouter(t)

	expires := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)
	w := doJSON(t, r, http.MethodPut, "/api/cache/report", token, map[string]any{
		"value":      "cached",
		"expiration": expires.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var put PutEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &put))
	require.True(t, put.Expiration.Equal(expires))
}

func TestPutEntry_RejectsUnknownTTLUnit(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/cache/report", token, map[string]any{
		"value":     "cached",
		"ttlUnit":   "fortnight",
		"ttlAmount": 2,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutEntry_RejectsNonPositiveTTLAmount(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/cache/report", token, map[string]any{
		"value":   "cached",
		"ttlUnit": "minute",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEntry_ThenMiss(t *testing.T) {
	r, token := newCacheRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/cache/tmp", token, map[string]any{"value": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/cache/tmp", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/cache/tmp", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlushStore(t *testing.T) {
	r, token := newCacheRouter(t)

	for _, key := range []string{"a", "b"} {
		w := doJSON(t, r, http.MethodPut, "/api/cache/"+key, token, map[string]any{"value": key})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodDelete, "/api/cache", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Entries int64 `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Zero(t, stats.Entries)
}

func TestCacheEndpoints_RequireToken(t *testing.T) {
	r, _ := newCacheRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cache/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
