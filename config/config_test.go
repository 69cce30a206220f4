// ABOUTME: Tests for environment-driven configuration loading
package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("HUBSPOT_TOKEN", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected an error without HUBSPOT_TOKEN")
	}
	if !strings.Contains(err.Error(), "HUBSPOT_TOKEN") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HUBSPOT_TOKEN", "pat-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HubSpotBaseURL != "https://api.hubapi.com" {
		t.Errorf("base url: %q", cfg.HubSpotBaseURL)
	}
	if cfg.PageSize != 100 || cfg.FlushSize != 500 || cfg.MaxConcurrency != 1 {
		t.Errorf("defaults: %+v", cfg)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("interval should default to zero, got %v", cfg.SyncInterval)
	}
	if !strings.HasSuffix(cfg.DatabasePath, "hubsync.db") {
		t.Errorf("database path: %q", cfg.DatabasePath)
	}
}

func TestLoadClampsPageSize(t *testing.T) {
	t.Setenv("HUBSPOT_TOKEN", "pat-test")
	t.Setenv("PAGE_SIZE", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PageSize != 100 {
		t.Errorf("oversized page size should fall back, got %d", cfg.PageSize)
	}
}

func TestLoadParsesInterval(t *testing.T) {
	t.Setenv("HUBSPOT_TOKEN", "pat-test")
	t.Setenv("SYNC_INTERVAL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("interval: %v", cfg.SyncInterval)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("HUBSPOT_TOKEN", "pat-test")
	for _, raw := range []string{"often", "-5m"} {
		t.Setenv("SYNC_INTERVAL", raw)
		if _, err := Load(); err == nil {
			t.Errorf("interval %q should be rejected", raw)
		}
	}
}
