// ABOUTME: Environment-driven configuration with XDG-based defaults
// ABOUTME: Only the API token is mandatory; everything else has a sane default
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

const (
	defaultBaseURL  = "https://api.hubapi.com"
	defaultPageSize = 100
	maxPageSize     = 100
	defaultFlush    = 500
)

// Config holds everything the sync needs to run.
type Config struct {
	HubSpotToken   string
	HubSpotBaseURL string
	DatabasePath   string
	PageSize       int
	FlushSize      int
	SyncInterval   time.Duration
	MaxConcurrency int
	Debug          bool
}

// Load reads configuration from the environment. Call godotenv first if a
// .env file should participate.
func Load() (*Config, error) {
	token := os.Getenv("HUBSPOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("HUBSPOT_TOKEN is required")
	}

	cfg := &Config{
		HubSpotToken:   token,
		HubSpotBaseURL: envOr("HUBSPOT_BASE_URL", defaultBaseURL),
		DatabasePath:   envOr("DATABASE_PATH", filepath.Join(xdg.DataHome, "hubsync", "hubsync.db")),
		PageSize:       envInt("PAGE_SIZE", defaultPageSize),
		FlushSize:      envInt("FLUSH_SIZE", defaultFlush),
		MaxConcurrency: envInt("SYNC_MAX_CONCURRENCY", 1),
		Debug:          envBool("SYNC_DEBUG"),
	}

	if cfg.PageSize < 1 || cfg.PageSize > maxPageSize {
		cfg.PageSize = defaultPageSize
	}
	if cfg.FlushSize < 1 {
		cfg.FlushSize = defaultFlush
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}

	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("SYNC_INTERVAL must not be negative")
		}
		cfg.SyncInterval = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
