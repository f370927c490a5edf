// Package config provides YAML-based configuration for the tour server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Assets   AssetsConfig   `yaml:"assets"`
	Hotspots HotspotsConfig `yaml:"hotspots"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Panel    PanelConfig    `yaml:"panel"`
	Sessions SessionsConfig `yaml:"sessions"`
	Advanced AdvancedConfig `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	BodyLimit    string `yaml:"body_limit"`
}

// AssetsConfig locates the image assets the viewer serves.
type AssetsConfig struct {
	Root          string `yaml:"root"`
	FloorplanFile string `yaml:"floorplan_file"`
	PhotosDir     string `yaml:"photos_dir"`
}

// HotspotsConfig selects and tunes the hotspot dataset source.
type HotspotsConfig struct {
	// Source is "file" or "http".
	Source string `yaml:"source"`
	File   string `yaml:"file"`
	URL    string `yaml:"url"`
	// BypassCache sends no-cache request headers on HTTP fetches so a stale
	// intermediary copy of the dataset is never served.
	BypassCache bool `yaml:"bypass_cache"`
}

// ViewerConfig contains panorama view defaults and limits.
type ViewerConfig struct {
	DefaultFov         float64 `yaml:"default_fov"`
	MinFov             float64 `yaml:"min_fov"`
	MaxFov             float64 `yaml:"max_fov"`
	WheelZoomRate      float64 `yaml:"wheel_zoom_rate"`
	AutorotateYawSpeed float64 `yaml:"autorotate_yaw_speed"`
	TransitionMs       int     `yaml:"transition_ms"`
}

// PanelConfig contains map panel behavior.
type PanelConfig struct {
	// InitialVisible controls whether a new tour opens with the map panel
	// shown. The viewer variants disagreed on this, so it is configurable
	// rather than hardcoded.
	InitialVisible   bool `yaml:"initial_visible"`
	ResizeDebounceMs int  `yaml:"resize_debounce_ms"`
}

// SessionsConfig contains tour session lifecycle settings.
type SessionsConfig struct {
	TimeoutMinutes         int `yaml:"timeout_minutes"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
}

// AdvancedConfig contains logging and tuning options.
type AdvancedConfig struct {
	LogLevel             string `yaml:"log_level"`
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "8M",
		},
		Assets: AssetsConfig{
			Root:          "./assets",
			FloorplanFile: "floorplan.png",
			PhotosDir:     "photos",
		},
		Hotspots: HotspotsConfig{
			Source:      "file",
			File:        "./assets/hotspots.json",
			BypassCache: true,
		},
		Viewer: ViewerConfig{
			DefaultFov:         1.2,
			MinFov:             0.4,
			MaxFov:             1.5,
			WheelZoomRate:      0.004,
			AutorotateYawSpeed: 0.02,
			TransitionMs:       1000,
		},
		Panel: PanelConfig{
			InitialVisible:   true,
			ResizeDebounceMs: 100,
		},
		Sessions: SessionsConfig{
			TimeoutMinutes:         30,
			CleanupIntervalMinutes: 5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, applying defaults for any
// omitted section. A missing file is not an error: the defaults are returned
// so the server can start with a zero-config layout.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	v := c.Viewer
	if v.MinFov <= 0 || v.MaxFov <= v.MinFov {
		return fmt.Errorf("invalid fov limits: min=%v max=%v", v.MinFov, v.MaxFov)
	}
	if v.DefaultFov < v.MinFov || v.DefaultFov > v.MaxFov {
		return fmt.Errorf("default fov %v outside limits [%v, %v]", v.DefaultFov, v.MinFov, v.MaxFov)
	}
	switch c.Hotspots.Source {
	case "file", "http":
	default:
		return fmt.Errorf("unknown hotspot source: %q", c.Hotspots.Source)
	}
	if c.Hotspots.Source == "http" && c.Hotspots.URL == "" {
		return fmt.Errorf("hotspot source is http but no url configured")
	}
	return nil
}

// EnsureDirectories creates the asset directories if they do not exist.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Assets.Root,
		filepath.Join(c.Assets.Root, c.Assets.PhotosDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetServerAddr returns the listen address for the HTTP server.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}
