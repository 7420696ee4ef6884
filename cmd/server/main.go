package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/api"
	"github.com/Belphemur/SuperCaptions/internal/client"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/metrics"
	"github.com/Belphemur/SuperCaptions/internal/reporting"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("version", version).
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("cache_provider", cfg.Cache.Provider).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if _, err := reporting.Init(cfg, version); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
	}
	defer reporting.Flush(2 * time.Second)

	captionClient, err := client.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create caption client")
	}
	defer func() {
		if err := captionClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close caption client")
		}
	}()

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	server := api.NewServer(captionClient)
	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start(address)
	}()

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("address", address).Msg("Failed to serve HTTP API")
			reporting.CaptureError(err, map[string]string{"component": "server"})
		}
	}

	logger.Info().Msg("Server stopped gracefully")
}
