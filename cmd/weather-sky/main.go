package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/i474232898/weather-sky/internal/app"
	"github.com/i474232898/weather-sky/internal/config"
	"github.com/i474232898/weather-sky/internal/log"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := log.Init(cfg.LogDebug); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer a.Stop()

	server := a.NewServer()

	// Start server with graceful shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()
	log.Infow("weather-sky listening", "port", cfg.Port, "fetch_interval", cfg.FetchInterval)

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warnw("error during shutdown", "error", err)
	}
}
