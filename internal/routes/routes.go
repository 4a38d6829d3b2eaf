package routes

import (
	"cache-store-api/internal/handlers"
	"cache-store-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(h *handlers.Handler) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", h.Health)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Token endpoint
		api.POST("/auth/token", h.IssueToken)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Cache endpoints
		protectedRoutes.GET("/cache/:key", h.GetEntry)
		protectedRoutes.PUT("/cache/:key", h.PutEntry)
		protectedRoutes.DELETE("/cache/:key", h.DeleteEntry)
		protectedRoutes.DELETE("/cache", h.FlushStore)
		protectedRoutes.GET("/stats", h.GetStats)
		// Client registry endpoints
		protectedRoutes.GET("/clients", h.ListClients)
		protectedRoutes.POST("/clients", h.CreateClient)
		// Realtime event stream
		protectedRoutes.GET("/ws", h.WebSocket)
	}

	return ginRouter
}
