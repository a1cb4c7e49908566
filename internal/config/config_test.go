package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("default backend = %s, want sqlite", cfg.Storage.Backend)
	}
	if cfg.GetLoopDwell() != 6*time.Second {
		t.Errorf("default dwell = %v, want 6s", cfg.GetLoopDwell())
	}
	if cfg.CompilerEnabled() || cfg.NarrationEnabled() {
		t.Errorf("services must be disabled by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxfolio.yaml")
	data := []byte(`
services:
  compiler:
    url: https://compiler.example.com/v1/compile
storage:
  backend: memory
loop:
  dwell: 2s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.CompilerEnabled() {
		t.Errorf("compiler should be enabled")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend = %s, want memory", cfg.Storage.Backend)
	}
	if cfg.GetLoopDwell() != 2*time.Second {
		t.Errorf("dwell = %v, want 2s", cfg.GetLoopDwell())
	}
	// Untouched sections keep their defaults.
	if cfg.Metrics.Addr != "localhost:9187" {
		t.Errorf("metrics addr lost its default: %s", cfg.Metrics.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOXFOLIO_NARRATION_URL", "https://narrate.example.com")
	t.Setenv("VOXFOLIO_NARRATION_KEY", "secret")
	t.Setenv("VOXFOLIO_STATE_DIR", "/var/lib/voxfolio")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Services.Narration.URL != "https://narrate.example.com" {
		t.Errorf("narration url override not applied")
	}
	if cfg.Services.Narration.APIKey != "secret" {
		t.Errorf("narration key override not applied")
	}
	if cfg.DatabasePath() != filepath.Join("/var/lib/voxfolio", "voxfolio.db") {
		t.Errorf("database path = %s", cfg.DatabasePath())
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	cfg.Storage.Backend = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Errorf("unknown backend must be rejected")
	}

	cfg = DefaultConfig()
	cfg.Voice.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Errorf("voice without endpoints must be rejected")
	}
	cfg.Voice.CredentialURL = "https://voice.example.com/credential"
	cfg.Voice.SDPURL = "https://voice.example.com/sdp"
	if err := cfg.Validate(); err != nil {
		t.Errorf("fully configured voice must validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "voxfolio.yaml")
	cfg := DefaultConfig()
	cfg.Loop.Dwell = "3s"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GetLoopDwell() != 3*time.Second {
		t.Errorf("dwell did not round trip: %v", loaded.GetLoopDwell())
	}
}
