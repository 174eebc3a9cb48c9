package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Server.Port)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("expected rate limiting enabled by default")
	}
	if cfg.Assembly.TokenBudget != 8000 {
		t.Errorf("expected default token budget 8000, got %d", cfg.Assembly.TokenBudget)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9100" {
		t.Errorf("expected port 9100, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "castiel.toml")
	body := `
[Server]
port = "9200"

[ML]
base_url = "http://ml.internal:8001"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != "9200" {
		t.Errorf("expected port 9200, got %s", cfg.Server.Port)
	}
	if cfg.ML.BaseURL != "http://ml.internal:8001" {
		t.Errorf("unexpected ML base URL: %s", cfg.ML.BaseURL)
	}
	// Untouched sections keep defaults.
	if cfg.RateLimit.RequestsPerSecond != 100 {
		t.Errorf("expected default rps 100, got %d", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoadPrefersFileWhenSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "castiel.toml")
	if err := os.WriteFile(path, []byte("[Server]\nport = \"9300\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9300" {
		t.Errorf("expected port from file, got %s", cfg.Server.Port)
	}
}
