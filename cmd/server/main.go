package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/basketlens/backend/config"
	httpDelivery "github.com/basketlens/backend/internal/delivery/http"
	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/infrastructure/cache"
	"github.com/basketlens/backend/internal/infrastructure/fetch"
	"github.com/basketlens/backend/internal/observability"
	"github.com/basketlens/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "basketlens-backend",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		logger.Fatal().Err(err).Msg("Server exited")
	}
}

// run serves the API until ctx is cancelled or the listener fails, then
// shuts down gracefully
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Dur("session_ttl", cfg.Session.TTL).
		Msg("Starting BasketLens Backend")

	filters, err := cfg.Filters.FilterDefaults()
	if err != nil {
		return fmt.Errorf("invalid filter defaults: %w", err)
	}

	// Initialize infrastructure dependencies
	sessionStore := cache.NewMemoryCache[*usecase.Session](cfg.Session.CleanupInterval)
	defer sessionStore.Close()

	searchers := []domain.RawSearcher{
		fetch.NewWaitroseClient(clientConfig(cfg.Retailers.Waitrose), logger),
		fetch.NewAsdaClient(clientConfig(cfg.Retailers.Asda), logger),
	}
	for _, r := range []struct {
		name string
		cfg  config.RetailerConfig
	}{
		{"waitrose", cfg.Retailers.Waitrose},
		{"asda", cfg.Retailers.Asda},
	} {
		logger.Info().
			Str("retailer", r.name).
			Str("base_url", r.cfg.BaseURL).
			Int("page_size", r.cfg.PageSize).
			Int("max_items", r.cfg.MaxItems).
			Msg("Retailer configured")
	}

	// Initialize usecase layer
	sessionService, err := usecase.NewSessionService(
		sessionStore,
		searchers,
		usecase.SessionServiceConfig{
			SessionTTL: cfg.Session.TTL,
			Filters:    filters,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("create session service: %w", err)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(sessionService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for cancellation or error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
	}

	logger.Info().Msg("Server stopped")
	return nil
}

func clientConfig(r config.RetailerConfig) fetch.ClientConfig {
	return fetch.ClientConfig{
		BaseURL:           r.BaseURL,
		PageSize:          r.PageSize,
		MaxItems:          r.MaxItems,
		Timeout:           r.Timeout,
		RequestsPerSecond: r.RequestsPerSecond,
	}
}
