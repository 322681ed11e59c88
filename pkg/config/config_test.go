package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.History.Limit != 50 {
		t.Errorf("History.Limit = %d, want 50", cfg.History.Limit)
	}
	if cfg.History.DebounceMS != 300 {
		t.Errorf("History.DebounceMS = %d, want 300", cfg.History.DebounceMS)
	}
	if cfg.Autosave.Backend != "file" {
		t.Errorf("Autosave.Backend = %q, want %q", cfg.Autosave.Backend, "file")
	}
	if cfg.Export.Scale != 2.0 {
		t.Errorf("Export.Scale = %v, want 2.0", cfg.Export.Scale)
	}
	if cfg.Layout.HSpacing != 250 || cfg.Layout.VGap != 50 {
		t.Errorf("Layout = %+v, want HSpacing 250 VGap 50", cfg.Layout)
	}
	if cfg.Server.Addr != ":8463" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8463")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[history]
limit = 10

[autosave]
backend = "redis"
redis_addr = "redis.internal:6380"

[export]
scale = 1.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.History.Limit != 10 {
		t.Errorf("History.Limit = %d, want 10", cfg.History.Limit)
	}
	if cfg.Autosave.Backend != "redis" || cfg.Autosave.RedisAddr != "redis.internal:6380" {
		t.Errorf("Autosave = %+v, want redis backend at redis.internal:6380", cfg.Autosave)
	}
	if cfg.Export.Scale != 1.0 {
		t.Errorf("Export.Scale = %v, want 1.0", cfg.Export.Scale)
	}

	// Untouched sections keep their defaults.
	if cfg.History.DebounceMS != 300 {
		t.Errorf("History.DebounceMS = %d, want default 300", cfg.History.DebounceMS)
	}
	if cfg.Server.Addr != ":8463" {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, ":8463")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[history\nlimit = ???"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for malformed TOML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestPathHonorsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	want := filepath.Join("/tmp/xdg-config", "flowkit", "config.toml")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}
