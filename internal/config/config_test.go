package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes into dir for the duration of the test; t.Chdir requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Weather.Timeout != 8 {
		t.Errorf("expected default provider timeout 8s, got %d", cfg.Weather.Timeout)
	}
	if cfg.Database.Enabled() {
		t.Error("database must be disabled by default")
	}
	if cfg.Weather.APIKey != "" {
		t.Errorf("expected empty API key by default, got %q", cfg.Weather.APIKey)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WPL_SERVER_PORT", "9090")
	t.Setenv("WPL_WEATHER_API_KEY", "mock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Weather.APIKey != "mock" {
		t.Errorf("expected env API key, got %q", cfg.Weather.APIKey)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 8181
weather:
  api_key: file-key
database:
  host: db
  name: weather
  user: app
  password: secret
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8181 {
		t.Errorf("expected file port 8181, got %d", cfg.Server.Port)
	}
	if cfg.Weather.APIKey != "file-key" {
		t.Errorf("expected file API key, got %q", cfg.Weather.APIKey)
	}
	if !cfg.Database.Enabled() {
		t.Error("expected database enabled from file")
	}
	// Untouched sections keep their defaults.
	if cfg.Forecast.APIEndpoint == "" {
		t.Error("expected default forecast endpoint to survive")
	}
}
