package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"feedbridge/internal/config"
	"feedbridge/internal/credentials"
	"feedbridge/internal/database"
	"feedbridge/internal/logger"
	"feedbridge/internal/worker"
	"feedbridge/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	processor := processors.NewEventProcessor(credentials.NewGormStore(db.DB), logger)

	// Initialize worker
	w := worker.New(cfg, logger, processor)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received shutdown signal")
		w.Stop()
		os.Exit(0)
	}()

	// Start worker
	w.Start()
}
