// Package config loads flowkit configuration from a TOML file.
//
// The file lives at ~/.config/flowkit/config.toml (or $XDG_CONFIG_HOME).
// Every field has a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration.
type Config struct {
	History  History  `toml:"history"`
	Autosave Autosave `toml:"autosave"`
	Export   Export   `toml:"export"`
	Layout   Layout   `toml:"layout"`
	Server   Server   `toml:"server"`
}

// History configures the undo/redo log.
type History struct {
	Limit      int `toml:"limit"`       // max retained snapshots
	DebounceMS int `toml:"debounce_ms"` // quiet period before a snapshot settles
}

// Autosave selects and configures the session store backend.
type Autosave struct {
	Backend   string `toml:"backend"` // "file", "redis", or "off"
	Path      string `toml:"path"`    // file backend: path override
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Export configures rendering defaults.
type Export struct {
	Background string  `toml:"background"` // canvas PNG background hex color
	Scale      float64 `toml:"scale"`      // pixel density multiplier
}

// Layout overrides the spacing constants of the flow layout.
type Layout struct {
	HSpacing float64 `toml:"h_spacing"`
	VGap     float64 `toml:"v_gap"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History:  History{Limit: 50, DebounceMS: 300},
		Autosave: Autosave{Backend: "file", RedisAddr: "localhost:6379"},
		Export:   Export{Background: "#f8fafc", Scale: 2.0},
		Layout:   Layout{HSpacing: 250, VGap: 50},
		Server:   Server{Addr: ":8463"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "flowkit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "flowkit", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
