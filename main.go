// ABOUTME: Entry point for the HubSpot-to-SQLite sync
// ABOUTME: Runs one reconciliation pass, or loops when an interval is set
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/harperreed/hubsync/config"
	"github.com/harperreed/hubsync/db"
	"github.com/harperreed/hubsync/etl"
	"github.com/harperreed/hubsync/hubspot"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/hubsync/hubsync.db)")
	once := flag.Bool("once", false, "Run a single pass even when SYNC_INTERVAL is set")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hubsync version %s\n", version)
		os.Exit(0)
	}

	// .env participates when present; a missing file is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("instance", uuid.NewString())
	slog.SetDefault(logger)

	database, err := db.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	logger.Info("sync store ready", "path", cfg.DatabasePath)
	if cfg.MaxConcurrency > 1 {
		// Page walking is sequential; the knob is only recorded.
		logger.Info("concurrency setting noted", "max_concurrency", cfg.MaxConcurrency)
	}

	client := hubspot.New(cfg.HubSpotBaseURL, cfg.HubSpotToken, cfg.PageSize, logger)
	engine := etl.New(database, client, logger, cfg.FlushSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SyncInterval == 0 || *once {
		if err := engine.Run(ctx); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		return
	}

	logger.Info("running on interval", "interval", cfg.SyncInterval.String())
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()
	for {
		if err := engine.Run(ctx); err != nil {
			logger.Error("sync pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
		}
	}
}
