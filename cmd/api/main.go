package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/handler"
	"shopfront/internal/router"
	"shopfront/internal/source"
	"shopfront/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopfront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Source adapters, in registration order. Aggregated results always
	// concatenate in this order.
	fakeStore := source.NewFakeStore(cfg.Sources.FakeStoreURL, cfg.Sources.Timeout, logger)
	dummyJSON := source.NewDummyJSON(cfg.Sources.DummyJSONURL, cfg.Sources.Timeout, logger)
	platzi := source.NewPlatzi(cfg.Sources.PlatziURL, cfg.Sources.Timeout, logger)

	catalogService := catalog.New(logger, fakeStore, dummyJSON, platzi)

	// Cart/wishlist persistence: redis when configured, file by default,
	// memory falls through for ephemeral runs.
	var persistence store.Persistence
	switch cfg.State.Backend {
	case "redis":
		persistence, err = store.NewRedisPersistence(ctx, cfg.State.Redis, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise redis state backend, falling back to local files")
			persistence, err = store.NewFilePersistence(cfg.State.Dir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialise state backend: %w", err)
			}
		}
	case "file":
		persistence, err = store.NewFilePersistence(cfg.State.Dir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialise state backend: %w", err)
		}
	default:
		persistence = store.NewMemoryPersistence()
		logger.Info().Msg("using in-memory state backend (state will not survive restarts)")
	}

	cartStore := store.NewCartStore(persistence, logger)
	wishlistStore := store.NewWishlistStore(persistence, logger)

	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartStore, catalogService, logger)
	wishlistHandler := handler.NewWishlistHandler(wishlistStore, cartStore, catalogService, logger)

	mux := router.New(productHandler, cartHandler, wishlistHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
