package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BerylCAtieno/umrah-docs-api/internal/config"
	"github.com/BerylCAtieno/umrah-docs-api/internal/db"
	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/repository"
	"github.com/BerylCAtieno/umrah-docs-api/internal/router"
	"github.com/BerylCAtieno/umrah-docs-api/internal/services"
	"github.com/BerylCAtieno/umrah-docs-api/internal/storage"
	"github.com/BerylCAtieno/umrah-docs-api/internal/utils"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	// Open database and apply migrations
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err, "path", cfg.DatabaseURL)
	}
	defer database.Close()

	var store storage.Storage
	if cfg.S3Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err = storage.NewS3Storage(ctx, cfg)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize archive storage", "error", err)
		}
		logger.Info("Archiving original uploads", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketName)
	}

	recordRepo := repository.NewRepository(database)
	docService, err := services.NewService(recordRepo, store, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document service", "error", err)
	}

	handler := router.NewRouter(docService, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"max_image_size", ingest.FormatSize(cfg.Budget.MaxImageBytes),
			"max_document_size", ingest.FormatSize(cfg.Budget.MaxDocumentBytes),
			"max_embedded_len", cfg.Budget.MaxEmbeddedLen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
