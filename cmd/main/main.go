package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bbt/exporter/internal/config"
	"bbt/exporter/internal/container"
	"bbt/exporter/internal/domain"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	log.Info("Starting catalogue exporter...")

	// Secrets such as SHOP_AUTH_KEY may live in .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Failed to load .env: %v", err)
	}

	// Load configuration using viper
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Log.SetupLogging(); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run the export
	if err := app.Run(ctx); err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			log.Errorf("Bad auth key: %v", err)
			exit(app, 2)
		}
		log.Errorf("Other error: %v", err)
		exit(app, 1)
	}

	log.Info("Application finished successfully")
}

// exit runs deferred cleanup by hand since os.Exit skips it
func exit(app *container.Container, code int) {
	app.Close()
	os.Exit(code)
}
