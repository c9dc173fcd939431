package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if time.Duration(cfg.Refresh.Interval) != 5*time.Minute {
		t.Errorf("default interval = %s, want 5m", time.Duration(cfg.Refresh.Interval))
	}
	if cfg.Daemon.Addr != "127.0.0.1:8790" {
		t.Errorf("default daemon addr = %q", cfg.Daemon.Addr)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("default theme = %q", cfg.Appearance.Theme)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("parsed = %s, want 90s", time.Duration(d))
	}

	out, err := Duration(15 * time.Minute).MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "15m0s" {
		t.Errorf("marshaled = %q, want 15m0s", out)
	}

	if err := d.UnmarshalText([]byte("not-a-duration")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if time.Duration(cfg.Refresh.Interval) != 5*time.Minute {
		t.Errorf("interval = %s, want default 5m", time.Duration(cfg.Refresh.Interval))
	}
	if Exists() {
		t.Error("Exists() = true for missing config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	in := DefaultConfig()
	in.API.BaseURL = "http://localhost:9999"
	in.Refresh.Interval = Duration(90 * time.Second)
	in.Refresh.Schedule = "*/5 * * * *"
	in.Daemon.Addr = "127.0.0.1:9001"
	in.Appearance.Theme = "catppuccin-mocha"

	if err := Save(in); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	out, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if out.API.BaseURL != in.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", out.API.BaseURL, in.API.BaseURL)
	}
	if out.Refresh.Interval != in.Refresh.Interval {
		t.Errorf("Interval = %s, want %s", time.Duration(out.Refresh.Interval), time.Duration(in.Refresh.Interval))
	}
	if out.Refresh.Schedule != in.Refresh.Schedule {
		t.Errorf("Schedule = %q, want %q", out.Refresh.Schedule, in.Refresh.Schedule)
	}
	if out.Daemon.Addr != in.Daemon.Addr {
		t.Errorf("Daemon.Addr = %q", out.Daemon.Addr)
	}
	if out.Appearance.Theme != in.Appearance.Theme {
		t.Errorf("Theme = %q", out.Appearance.Theme)
	}
}

func TestPathUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "yescode-statusbar", "config.toml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
