package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("strategy:\n  type: react\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy.Type != "react" {
		t.Fatalf("expected react, got %s", cfg.Strategy.Type)
	}
	if cfg.Checkpoint.Interval != 1 {
		t.Fatalf("expected default checkpoint interval 1, got %d", cfg.Checkpoint.Interval)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("strategy:\n  type: bogus\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown strategy type")
	}
}

func TestLoadWithEnv_ExpandsVariables(t *testing.T) {
	t.Setenv("CHECKPOINT_DIR", "/tmp/my-checkpoints")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "checkpoint:\n  enabled: true\n  dir: ${CHECKPOINT_DIR}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Checkpoint.Dir != "/tmp/my-checkpoints" {
		t.Fatalf("expected env expansion, got %q", cfg.Checkpoint.Dir)
	}
}

func TestLoadWithEnv_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "checkpoint:\n  dir: ${UNSET_CHECKPOINT_DIR:-./fallback}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Checkpoint.Dir != "./fallback" {
		t.Fatalf("expected fallback default, got %q", cfg.Checkpoint.Dir)
	}
}
