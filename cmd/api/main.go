package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"adspark/internal/ai"
	"adspark/internal/api"
	"adspark/internal/campaign"
	"adspark/internal/chat"
	"adspark/internal/config"
	"adspark/internal/database"
	"adspark/internal/events"
	"adspark/internal/logger"
	"adspark/internal/metrics"
	"adspark/internal/performance"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	metrics.SetGlobal(m)

	// AI_RETRY and AI_MAX_RETRIES are read by the client itself
	copywriter := ai.New(cfg, logger)

	notifier := events.NewNotifier(cfg, logger)
	defer notifier.Close()

	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize performance data: %v", err)
	}
	defer closeProvider()

	script, err := chat.LoadScript(cfg.ChatScriptPath)
	if err != nil {
		logger.Warn("Using default chat script: %v", err)
	}

	server := api.New(cfg, logger, api.Dependencies{
		Registry:   campaign.NewRegistry(copywriter, notifier, logger, campaign.WithMaxUploadBytes(cfg.MaxUploadBytes)),
		Provider:   provider,
		Transcript: chat.NewTranscript(script, chat.NewRandomResponder(script.Responses, nil)),
		Suggester:  copywriter,
		Metrics:    m,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error: %v", err)
	}
}

// newProvider picks the performance data source. The database source is
// seeded with the sample variants on first start.
func newProvider(ctx context.Context, cfg *config.Config, logger *logger.Logger) (performance.Provider, func(), error) {
	if cfg.PerformanceSource != "database" {
		return performance.NewStaticProvider(), func() {}, nil
	}

	db, err := database.New(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	store := performance.NewStoreProvider(db.DB, logger)
	if err := store.Seed(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
