package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.Viewer.DefaultFov != 1.2 {
		t.Errorf("expected default fov 1.2, got %v", cfg.Viewer.DefaultFov)
	}
	if !cfg.Hotspots.BypassCache {
		t.Error("expected cache bypass enabled by default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	content := `
server:
  port: 9000
panel:
  initial_visible: false
  resize_debounce_ms: 100
hotspots:
  source: http
  url: http://example.com/hotspots.json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Panel.InitialVisible {
		t.Error("expected panel hidden initially")
	}
	if cfg.Hotspots.Source != "http" {
		t.Errorf("expected http source, got %s", cfg.Hotspots.Source)
	}
	// Untouched sections keep their defaults.
	if cfg.Viewer.MinFov != 0.4 || cfg.Viewer.MaxFov != 1.5 {
		t.Errorf("expected default fov limits, got [%v, %v]", cfg.Viewer.MinFov, cfg.Viewer.MaxFov)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: -1\n"},
		{"inverted fov limits", "viewer:\n  min_fov: 2.0\n  max_fov: 1.0\n  default_fov: 1.2\n"},
		{"http source without url", "hotspots:\n  source: http\n"},
		{"unknown source", "hotspots:\n  source: carrier-pigeon\n"},
		{"malformed yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
