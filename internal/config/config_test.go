package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Display.LabelWidth != 300 || cfg.Display.LabelHeight != 300 {
		t.Errorf("label size = %dx%d, want 300x300", cfg.Display.LabelWidth, cfg.Display.LabelHeight)
	}
	if cfg.Display.DefaultZoom != 0.4 {
		t.Errorf("default zoom = %v, want 0.4", cfg.Display.DefaultZoom)
	}
	if cfg.CrosshairRefresh() != 30*time.Millisecond {
		t.Errorf("crosshair refresh = %v, want 30ms", cfg.CrosshairRefresh())
	}
	if cfg.PlaybackInterval() != 2*time.Millisecond {
		t.Errorf("playback interval = %v, want 2ms", cfg.PlaybackInterval())
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Display.LabelWidth != 300 {
		t.Errorf("label width = %d, want default 300", cfg.Display.LabelWidth)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	payload := "display:\n  labelWidth: 400\ntiming:\n  crosshairRefreshMs: 50\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Display.LabelWidth != 400 {
		t.Errorf("label width = %d, want 400", cfg.Display.LabelWidth)
	}
	if cfg.Display.LabelHeight != 300 {
		t.Errorf("label height = %d, want default 300", cfg.Display.LabelHeight)
	}
	if cfg.CrosshairRefresh() != 50*time.Millisecond {
		t.Errorf("crosshair refresh = %v, want 50ms", cfg.CrosshairRefresh())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	if err := os.WriteFile(path, []byte("display:\n  labelWidth: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for tiny label size")
	}

	if err := os.WriteFile(path, []byte("display: [not a map]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
