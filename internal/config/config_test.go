package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.CacheCapacity != 24 {
		t.Errorf("expected cache capacity 24, got %d", cfg.Pipeline.CacheCapacity)
	}
	if !cfg.Pipeline.ComputeNormals {
		t.Error("expected compute_normals to be true by default")
	}
	if cfg.Pipeline.ComputeTangents {
		t.Error("expected compute_tangents to be false by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshtool.yaml")

	data := []byte("pipeline:\n  cache_capacity: 16\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pipeline.CacheCapacity != 16 {
		t.Errorf("expected cache capacity 16, got %d", cfg.Pipeline.CacheCapacity)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Values absent from the file keep their defaults.
	if !cfg.Pipeline.ComputeNormals {
		t.Error("compute_normals should keep its default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.CacheCapacity != 24 {
		t.Error("missing file should leave defaults in place")
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshtool.yaml")
	if err := os.WriteFile(path, []byte("pipeline:\n  cache_capacity: not-a-number\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should be an error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "meshtool.yaml")

	cfg := Default()
	cfg.Pipeline.CacheCapacity = 32
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Pipeline.CacheCapacity != 32 {
		t.Errorf("expected cache capacity 32 after round trip, got %d", loaded.Pipeline.CacheCapacity)
	}
}
