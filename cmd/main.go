package main

import (
	"crypto/rand"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"fairdraw/internal/config"
	"fairdraw/internal/handlers"
	"fairdraw/internal/services"
	"fairdraw/internal/storage"
)

func main() {
	// 1. Load configuration (fairdraw.yaml / FAIRDRAW_* env vars).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	defer logger.Init("fairdraw", cfg.Verbose, false, os.Stderr).Close()

	// 2. Open the store and migrate the schema.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open storage at %s: %v", cfg.DBPath, err)
	}

	// 3. Initialize the fairness service with the system CSPRNG.
	svc := services.NewFairnessService(store, rand.Reader, cfg.FullDisclosure)

	// 4. Set up the Gin router and register routes.
	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	handlers.NewHTTPHandler(svc).RegisterRoutes(r)

	// 5. Run the server.
	logger.Infof("Server starting on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}
