package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "COORDINATOR_URL", "PROBE_TIMEOUT_MS", "POLL_INTERVAL_MS", "AGENTS_CONFIG"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != 8088 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.CoordinatorURL != "http://localhost:9000" {
		t.Fatalf("unexpected coordinator: %s", cfg.CoordinatorURL)
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Fatalf("unexpected probe timeout: %v", cfg.ProbeTimeout)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval)
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("unexpected history limit: %d", cfg.HistoryLimit)
	}
	if len(cfg.Endpoints) != 5 {
		t.Fatalf("expected default five-agent fleet, got %d", len(cfg.Endpoints))
	}
	if cfg.Endpoints[0].Key != "orchestrator" {
		t.Fatalf("unexpected first endpoint: %+v", cfg.Endpoints[0])
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("COORDINATOR_URL", "http://coordinator:9000")
	t.Setenv("PROBE_TIMEOUT_MS", "1500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPPort != 9999 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.CoordinatorURL != "http://coordinator:9000" {
		t.Fatalf("unexpected coordinator: %s", cfg.CoordinatorURL)
	}
	if cfg.ProbeTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected probe timeout: %v", cfg.ProbeTimeout)
	}
}

func TestLoadAgentsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	content := `agents:
  - key: orchestrator
    base_url: http://agents:9000
  - key: dataGathering
    base_url: http://agents:9001
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("AGENTS_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(cfg.Endpoints))
	}
	if cfg.Endpoints[1].Key != "dataGathering" || cfg.Endpoints[1].BaseURL != "http://agents:9001" {
		t.Fatalf("unexpected endpoint: %+v", cfg.Endpoints[1])
	}
}

func TestLoadAgentsConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	if err := os.WriteFile(path, []byte("agents:\n  - key: missing-url\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("AGENTS_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for incomplete agent entry")
	}
}
