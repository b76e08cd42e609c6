package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"adspark/internal/config"
	"adspark/internal/logger"
	"adspark/internal/worker"

	_ "go.uber.org/automaxprocs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	if len(cfg.Brokers()) == 0 {
		logger.Fatal("KAFKA_BROKERS is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize worker
	w := worker.New(cfg, logger)

	// Start worker
	logger.Info("Starting worker...")
	w.Start(ctx)

	logger.Info("Shutting down worker, %d deploy events processed", w.Processed())
	w.Stop()
}
