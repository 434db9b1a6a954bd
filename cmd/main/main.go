package main

import (
	"context"
	"os/signal"
	"syscall"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting routine advisor...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	// Run the application
	if err := app.Run(ctx); err != nil {
		log.Errorf("Application exited with error: %v", err)
		return
	}

	log.Info("Application finished successfully")
}
