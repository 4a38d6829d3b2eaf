package main

import (
	"context"
	"log"

	"cache-store-api/internal/cache"
	"cache-store-api/internal/config"
	"cache-store-api/internal/handlers"
	"cache-store-api/internal/realtime"
	"cache-store-api/internal/routes"
)

func main() {
	// Load configuration from the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Open the backing store and run migrations
	svc := cache.New(cache.Config{
		StoreID:      cfg.StoreID,
		StoreVersion: cfg.StoreVersion,
		Verbose:      cfg.Verbose,
		Events:       realtime.NewPublisher(realtime.GetHub()),
	})
	if err := svc.Init(context.Background()); err != nil {
		log.Fatal("Failed to initialize cache store: ", err)
	}
	db, err := svc.DB()
	if err != nil {
		log.Fatal("Failed to acquire store handle: ", err)
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(handlers.New(svc, db))

	// Start server
	addr := cfg.Addr()
	log.Printf("Cache store %q (version %d) serving on %s", cfg.StoreID, cfg.StoreVersion, addr)
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/token")
	log.Println("  GET    /api/cache/:key")
	log.Println("  PUT    /api/cache/:key")
	log.Println("  DELETE /api/cache/:key")
	log.Println("  DELETE /api/cache")
	log.Println("  GET    /api/stats")
	log.Println("  GET    /api/clients")
	log.Println("  POST   /api/clients")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
